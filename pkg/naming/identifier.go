package naming

import (
	"fmt"
	"strconv"
)

// Instance id address space: "01".."99" then "A1".."Z9".
const (
	MaxNumericInstance = 99
	FirstAlphaInstance = InstanceID("A1")
	LastAlphaInstance  = InstanceID("Z9")

	// AddressSpaceSize is the number of identifiers one (parent, role) pair can issue.
	AddressSpaceSize = MaxNumericInstance + 26*9
)

// InstanceID is the per-(parent, role) discriminator of an identifier.
type InstanceID string

// NumericInstanceID returns the zero-padded instance id for n (1..99).
func NumericInstanceID(n int) InstanceID {
	return InstanceID(fmt.Sprintf("%02d", n))
}

// IsNumeric reports whether the id is in the "01".."99" range.
func (id InstanceID) IsNumeric() bool {
	if len(id) != 2 {
		return false
	}
	n, err := strconv.Atoi(string(id))
	return err == nil && n >= 1 && n <= MaxNumericInstance
}

// IsAlpha reports whether the id is in the "A1".."Z9" range.
func (id InstanceID) IsAlpha() bool {
	return len(id) == 2 && id[0] >= 'A' && id[0] <= 'Z' && id[1] >= '1' && id[1] <= '9'
}

// next returns the alphanumeric successor of an alpha id.
func (id InstanceID) next() (InstanceID, error) {
	letter, digit := id[0], id[1]
	switch {
	case digit < '9':
		return InstanceID([]byte{letter, digit + 1}), nil
	case letter < 'Z':
		return InstanceID([]byte{letter + 1, '1'}), nil
	default:
		return "", ErrAddressSpaceExhausted
	}
}

// Identifier is the canonical sub-agent name: "{ParentDisplay}.{Role}-{InstanceID}".
type Identifier struct {
	ParentDisplay string
	Role          string
	InstanceID    InstanceID
}

// String renders the identifier in its canonical form.
func (i Identifier) String() string {
	return Compose(i.ParentDisplay, i.Role, i.InstanceID)
}

// Compose builds the canonical identifier string.
func Compose(parentDisplay, role string, instance InstanceID) string {
	return fmt.Sprintf("%s.%s-%s", parentDisplay, role, instance)
}
