package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is a parsed CSV export: a header index plus the data rows whose
// column count matched the header. Mismatched rows are kept aside as row
// errors so the summary can count them.
type Table struct {
	headers []string
	index   map[string]int
	Rows    [][]string
	Skipped []RowError
}

// RowError ties a row-level problem to its 1-based line number in the file.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ReadTable parses a legacy CSV export. The header row is required; a UTF-8
// BOM on the first header cell is tolerated. Rows with a column count other
// than the header's are skipped, not fatal.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv is empty, header row required")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	index := make(map[string]int, len(headers))
	for i, name := range headers {
		index[strings.TrimSpace(name)] = i
	}

	table := &Table{headers: headers, index: index}

	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			if parseErr, ok := err.(*csv.ParseError); ok {
				table.Skipped = append(table.Skipped, RowError{Line: parseErr.Line, Err: parseErr.Err})
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) != len(headers) {
			table.Skipped = append(table.Skipped, RowError{
				Line: line,
				Err:  fmt.Errorf("column count %d does not match header %d", len(record), len(headers)),
			})
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// ReadTableFile opens and parses a CSV export from disk. A missing or
// unreadable file is a setup failure.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTable(f)
}

// RequireColumns verifies the header carries every named column. Missing
// required columns are a setup failure, not a row error.
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("csv is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Get returns the trimmed cell under the named column, or "" when the column
// is absent.
func (t *Table) Get(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// GetPtr is Get returning nil for a blank cell, for optional fields.
func (t *Table) GetPtr(row []string, column string) *string {
	value := t.Get(row, column)
	if value == "" {
		return nil
	}
	return &value
}
