package mapping

import (
	"regexp"
	"strings"
)

// Unknown is the sentinel written for a disc field the extractor could not
// determine. Downstream code and reports treat it as "not extracted", which
// keeps it distinguishable from a legitimately blank column.
const Unknown = "Unknown"

// DiscFields is the structured result of extracting disc attributes from a
// free-text description.
type DiscFields struct {
	Brand string
	Mold  string
	Color string
}

// knownBrands is matched against the start of the description. Multi-word
// names come before their single-word prefixes so "Dynamic Discs Judge"
// resolves the full brand.
var knownBrands = []string{
	"Dynamic Discs",
	"Latitude 64",
	"Lone Star",
	"Thought Space",
	"Infinite Discs",
	"Innova",
	"Discraft",
	"Discmania",
	"Westside",
	"Prodigy",
	"Kastaplast",
	"Axiom",
	"Streamline",
	"Gateway",
	"Millennium",
	"Legacy",
	"MVP",
	"DGA",
	"Mint",
	"Clash",
	"Viking",
	"RPM",
}

var colorPattern = regexp.MustCompile(`(?i)\b(red|orange|yellow|green|blue|purple|pink|white|black|gr[ae]y|brown|tan|clear|glow|tie[- ]?dye)\b`)

// ExtractDisc pulls brand, mold, and color out of an unstructured
// description. It is a best-effort heuristic and is allowed to misclassify:
// when no known brand anchors the string, the first token is taken as the
// brand and the second as the mold. Missing pieces come back as the Unknown
// sentinel, never as an empty string.
func ExtractDisc(description string) DiscFields {
	fields := DiscFields{Brand: Unknown, Mold: Unknown, Color: Unknown}

	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return fields
	}

	if match := colorPattern.FindString(trimmed); match != "" {
		fields.Color = canonicalColor(match)
	}

	remainder := trimmed
	for _, brand := range knownBrands {
		if !hasBrandPrefix(trimmed, brand) {
			continue
		}
		fields.Brand = brand
		remainder = strings.TrimSpace(trimmed[len(brand):])
		if token := firstToken(remainder); token != "" {
			fields.Mold = token
		}
		return fields
	}

	tokens := strings.Fields(remainder)
	if len(tokens) > 0 {
		if token := trimPunct(tokens[0]); token != "" {
			fields.Brand = token
		}
	}
	if len(tokens) > 1 {
		if token := trimPunct(tokens[1]); token != "" {
			fields.Mold = token
		}
	}
	return fields
}

// hasBrandPrefix reports whether s starts with the brand name followed by a
// word boundary, so "Innovation station" does not read as an Innova disc.
func hasBrandPrefix(s, brand string) bool {
	if len(s) < len(brand) || !strings.EqualFold(s[:len(brand)], brand) {
		return false
	}
	return len(s) == len(brand) || s[len(brand)] == ' '
}

func firstToken(value string) string {
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return ""
	}
	return trimPunct(tokens[0])
}

// trimPunct drops punctuation left behind when a description reads like
// "Innova Destroyer, blue".
func trimPunct(token string) string {
	return strings.Trim(token, ",.;:")
}

func canonicalColor(match string) string {
	lowered := strings.ToLower(match)
	switch lowered {
	case "grey":
		return "gray"
	case "tiedye", "tie dye", "tie-dye":
		return "tie-dye"
	default:
		return lowered
	}
}
