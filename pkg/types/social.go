package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Social mirrors the social_t composite Postgres type.
type Social struct {
	Facebook  *string `json:"facebook,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Website   *string `json:"website,omitempty"`
}

func (s Social) Value() (driver.Value, error) {
	parts := []string{
		quoteCompositeNullable(s.Facebook),
		quoteCompositeNullable(s.Instagram),
		quoteCompositeNullable(s.Twitter),
		quoteCompositeNullable(s.Website),
	}
	return "(" + strings.Join(parts, ",") + ")", nil
}

func (s *Social) Scan(value interface{}) error {
	if value == nil {
		*s = Social{}
		return nil
	}

	raw, ok := toString(value)
	if !ok {
		return fmt.Errorf("social: unsupported scan type %T", value)
	}

	fields, err := parseComposite(raw, 4)
	if err != nil {
		return err
	}

	s.Facebook = newCompositeNullable(fields[0])
	s.Instagram = newCompositeNullable(fields[1])
	s.Twitter = newCompositeNullable(fields[2])
	s.Website = newCompositeNullable(fields[3])

	return nil
}
