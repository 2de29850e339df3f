package naming

import "regexp"

// identifierPattern is the identifier grammar: Parent.Role-ID.
var identifierPattern = regexp.MustCompile(`^(\w+)\.(\w+)-([A-Z]?\d+)$`)

// Record is the structured form of a parsed identifier.
//
// A record can be syntactically well formed yet semantically invalid (unknown
// parent or role, or a pairing the schema does not allow). Such records have
// Valid set to false and an empty ParentKey when the parent is unknown.
type Record struct {
	ParentKey     string     `json:"parent,omitempty"`
	ParentDisplay string     `json:"parent_display"`
	Role          string     `json:"role"`
	InstanceID    InstanceID `json:"instance_id"`
	Full          string     `json:"full"`
	Valid         bool       `json:"valid"`
}

// Identifier returns the identifier described by the record.
func (r Record) Identifier() Identifier {
	return Identifier{ParentDisplay: r.ParentDisplay, Role: r.Role, InstanceID: r.InstanceID}
}

// Parse converts an identifier string into a Record.
// It returns false when the string does not match the identifier grammar;
// this is an ordinary result, not an error.
func (s *Schema) Parse(identifier string) (Record, bool) {
	if identifier == "" {
		return Record{}, false
	}

	m := identifierPattern.FindStringSubmatch(identifier)
	if m == nil {
		return Record{}, false
	}

	rec := Record{
		ParentDisplay: m[1],
		Role:          m[2],
		InstanceID:    InstanceID(m[3]),
		Full:          identifier,
	}

	parent, parentOK := s.ParentByDisplay(rec.ParentDisplay)
	if parentOK {
		rec.ParentKey = parent.Key
	}
	role, roleOK := s.Role(rec.Role)

	rec.Valid = parentOK && roleOK && role.Allows(parent.Key)
	return rec, true
}

// IsValid reports whether identifier parses and is semantically valid.
func (s *Schema) IsValid(identifier string) bool {
	rec, ok := s.Parse(identifier)
	return ok && rec.Valid
}
