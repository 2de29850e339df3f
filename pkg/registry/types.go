package registry

import (
	"fmt"

	"github.com/google/uuid"
)

// SpawnRecord is the durable record of one issued identifier.
// Records are immutable once written: an identifier is issued exactly once
// per fleet and never reassigned.
type SpawnRecord struct {
	ID          string `json:"id"`                     // UUID - unique id for this issuance
	Identifier  string `json:"identifier"`             // Full identifier, e.g. "Forge.CodeBuilder-04"
	ParentKey   string `json:"parent_key"`             // Lowercase parent key, e.g. "forge"
	Role        string `json:"role"`                   // Role name, e.g. "CodeBuilder"
	InstanceID  string `json:"instance_id"`            // "01".."99" or "A1".."Z9"
	Source      Source `json:"source"`                 // How the identifier entered the registry
	LegacyLabel string `json:"legacy_label,omitempty"` // Original label for migrated identifiers
	CreatedAtMs int64  `json:"created_at_ms"`          // Unix timestamp in milliseconds
}

// Source records how an identifier was issued.
type Source string

const (
	// SourceSpawn marks identifiers allocated by Spawn
	SourceSpawn Source = "spawn"

	// SourceMigration marks identifiers committed from a legacy label
	SourceMigration Source = "migration"
)

// Validate checks that the Source is a known value.
func (s Source) Validate() error {
	switch s {
	case SourceSpawn, SourceMigration:
		return nil
	default:
		return fmt.Errorf("invalid source: %q", s)
	}
}

// Validate checks the structural fields of a record.
func (r *SpawnRecord) Validate() error {
	if !isValidUUID(r.ID) {
		return fmt.Errorf("invalid record ID: not a valid UUID")
	}

	if r.Identifier == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if r.ParentKey == "" {
		return fmt.Errorf("parent_key cannot be empty")
	}

	if r.Role == "" {
		return fmt.Errorf("role cannot be empty")
	}

	if err := r.Source.Validate(); err != nil {
		return err
	}

	if r.Source == SourceMigration && r.LegacyLabel == "" {
		return fmt.Errorf("legacy_label is required for migrated identifiers")
	}

	return nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
