package registry

import (
	"fmt"
	"strconv"
)

// RecordToHash converts a SpawnRecord to the Redis hash layout.
func RecordToHash(r *SpawnRecord) map[string]interface{} {
	return map[string]interface{}{
		"id":            r.ID,
		"identifier":    r.Identifier,
		"parent_key":    r.ParentKey,
		"role":          r.Role,
		"instance_id":   r.InstanceID,
		"source":        string(r.Source),
		"legacy_label":  r.LegacyLabel,
		"created_at_ms": r.CreatedAtMs,
	}
}

// HashToRecord converts a Redis hash back to a SpawnRecord.
func HashToRecord(hash map[string]string) (*SpawnRecord, error) {
	createdAtMs, err := strconv.ParseInt(hash["created_at_ms"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at_ms field: %w", err)
	}

	record := &SpawnRecord{
		ID:          hash["id"],
		Identifier:  hash["identifier"],
		ParentKey:   hash["parent_key"],
		Role:        hash["role"],
		InstanceID:  hash["instance_id"],
		Source:      Source(hash["source"]),
		LegacyLabel: hash["legacy_label"],
		CreatedAtMs: createdAtMs,
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("corrupt record: %w", err)
	}

	return record, nil
}
