package naming

import (
	"fmt"
	"regexp"
	"strconv"
)

// Allocator computes the next identifier for a (parent, role) pair.
//
// Allocation is strictly monotonic: the next id always follows the highest id
// already issued, gaps are never reused. The Allocator owns no storage and is
// safe for concurrent use, but two callers working from the same snapshot of
// existing identifiers will compute the same result. Callers that need
// uniqueness must serialize allocate-and-persist per pair; see Ledger and the
// registry package.
type Allocator struct {
	schema *Schema
}

// NewAllocator returns an Allocator over schema.
func NewAllocator(schema *Schema) *Allocator {
	return &Allocator{schema: schema}
}

// Schema returns the schema the allocator validates against.
func (a *Allocator) Schema() *Schema {
	return a.schema
}

// Resolve validates a (parent, role) request without allocating.
// parentKey is matched case-insensitively; role is matched exactly.
func (a *Allocator) Resolve(parentKey, role string) (Parent, Role, error) {
	parent, ok := a.schema.Parent(parentKey)
	if !ok {
		return Parent{}, Role{}, fmt.Errorf("%w: %s", ErrInvalidParent, parentKey)
	}

	info, ok := a.schema.Role(role)
	if !ok {
		return Parent{}, Role{}, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	if !info.Allows(parent.Key) {
		return Parent{}, Role{}, fmt.Errorf("%w: role %s not allowed for parent %s", ErrRoleNotAllowed, role, parentKey)
	}

	return parent, info, nil
}

// Generate returns the next identifier for (parentKey, role) given every
// identifier issued so far. Entries for other pairs and malformed entries in
// existing are ignored. existing is never modified.
func (a *Allocator) Generate(parentKey, role string, existing []string) (Identifier, error) {
	parent, info, err := a.Resolve(parentKey, role)
	if err != nil {
		return Identifier{}, err
	}

	next, err := NextInstanceID(parent.DisplayName, info.Name, existing)
	if err != nil {
		return Identifier{}, fmt.Errorf("%s.%s: %w", parent.DisplayName, info.Name, err)
	}

	return Identifier{
		ParentDisplay: parent.DisplayName,
		Role:          info.Name,
		InstanceID:    next,
	}, nil
}

// NextInstanceID computes the instance id that follows the highest one issued
// for parentDisplay and role. It does not consult any schema.
func NextInstanceID(parentDisplay, role string, existing []string) (InstanceID, error) {
	prefix := regexp.QuoteMeta(parentDisplay) + `\.` + regexp.QuoteMeta(role) + `-`
	numericPattern := regexp.MustCompile(`^` + prefix + `(\d{2})$`)

	maxNumeric := 0
	for _, name := range existing {
		m := numericPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > MaxNumericInstance {
			continue
		}
		if n > maxNumeric {
			maxNumeric = n
		}
	}

	if maxNumeric < MaxNumericInstance {
		return NumericInstanceID(maxNumeric + 1), nil
	}

	// Numeric range used up; continue in the alphanumeric range.
	alphaPattern := regexp.MustCompile(`^` + prefix + `([A-Z][1-9])$`)

	var highest InstanceID
	for _, name := range existing {
		m := alphaPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if id := InstanceID(m[1]); id > highest {
			highest = id
		}
	}

	if highest == "" {
		return FirstAlphaInstance, nil
	}
	return highest.next()
}
