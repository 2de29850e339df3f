package naming

import "errors"

// Allocation failures. These indicate a bug in the calling code or a hard
// operational limit and are always returned to the caller.
var (
	// ErrInvalidParent is returned when a parent key is not in the schema.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrInvalidRole is returned when a role name is not in the schema.
	ErrInvalidRole = errors.New("invalid role")

	// ErrRoleNotAllowed is returned when a role may not be spawned by the parent.
	ErrRoleNotAllowed = errors.New("role not allowed for parent")

	// ErrAddressSpaceExhausted is returned once a (parent, role) pair has issued -Z9.
	ErrAddressSpaceExhausted = errors.New("instance id space exhausted (Z9 reached)")
)

// Schema registration failures.
var (
	// ErrRoleExists is returned when a role name collides with a core or custom role.
	ErrRoleExists = errors.New("role already exists and cannot be modified")

	// ErrAbbreviationExists is returned when an abbreviation is already taken.
	ErrAbbreviationExists = errors.New("abbreviation already exists")

	// ErrInvalidDefinition is returned for malformed parent or role definitions.
	ErrInvalidDefinition = errors.New("invalid definition")
)

// ErrAlreadyIssued is returned by a Ledger when committing an identifier that
// has already been recorded.
var ErrAlreadyIssued = errors.New("identifier already issued")
