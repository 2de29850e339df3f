package naming

import "fmt"

// Format selects how DisplayName renders an identifier.
type Format int

const (
	// FormatFull renders the identifier unchanged.
	FormatFull Format = iota
	// FormatAbbreviated renders "{P}.{AB}-{ID}", e.g. "F.CB-01".
	FormatAbbreviated
)

// String returns the flag spelling of the format.
func (f Format) String() string {
	switch f {
	case FormatFull:
		return "full"
	case FormatAbbreviated:
		return "abbreviated"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat converts "full" or "abbreviated" into a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "full", "":
		return FormatFull, nil
	case "abbreviated", "abbrev", "short":
		return FormatAbbreviated, nil
	default:
		return FormatFull, fmt.Errorf("unknown display format '%s' (must be 'full' or 'abbreviated')", s)
	}
}

// DisplayName renders identifier for humans. It never fails: anything that
// is not a valid identifier is returned verbatim.
func (s *Schema) DisplayName(identifier string, f Format) string {
	if f != FormatAbbreviated {
		return identifier
	}

	rec, ok := s.Parse(identifier)
	if !ok || !rec.Valid {
		return identifier
	}

	role, ok := s.Role(rec.Role)
	if !ok {
		return identifier
	}

	return fmt.Sprintf("%s.%s-%s", rec.ParentDisplay[:1], role.Abbreviation, rec.InstanceID)
}
