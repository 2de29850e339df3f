package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *SpawnRecord {
	return &SpawnRecord{
		ID:          uuid.New().String(),
		Identifier:  "Forge.CodeBuilder-01",
		ParentKey:   "forge",
		Role:        "CodeBuilder",
		InstanceID:  "01",
		Source:      SourceSpawn,
		CreatedAtMs: 1700000000000,
	}
}

func TestSpawnRecordValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(r *SpawnRecord)
		wantErr string
	}{
		{name: "valid spawn record", mutate: func(r *SpawnRecord) {}},
		{
			name: "valid migration record",
			mutate: func(r *SpawnRecord) {
				r.Source = SourceMigration
				r.LegacyLabel = "forge-builder-v1"
			},
		},
		{name: "bad uuid", mutate: func(r *SpawnRecord) { r.ID = "nope" }, wantErr: "not a valid UUID"},
		{name: "empty identifier", mutate: func(r *SpawnRecord) { r.Identifier = "" }, wantErr: "identifier cannot be empty"},
		{name: "empty parent", mutate: func(r *SpawnRecord) { r.ParentKey = "" }, wantErr: "parent_key cannot be empty"},
		{name: "empty role", mutate: func(r *SpawnRecord) { r.Role = "" }, wantErr: "role cannot be empty"},
		{name: "unknown source", mutate: func(r *SpawnRecord) { r.Source = "import" }, wantErr: "invalid source"},
		{
			name:    "migration without label",
			mutate:  func(r *SpawnRecord) { r.Source = SourceMigration },
			wantErr: "legacy_label is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRecord()
			tc.mutate(r)
			err := r.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestHashToRecord(t *testing.T) {
	t.Run("round trips through the hash layout", func(t *testing.T) {
		r := validRecord()
		r.Source = SourceMigration
		r.LegacyLabel = "forge-builder-v1"

		hash := make(map[string]string)
		for k, v := range RecordToHash(r) {
			switch val := v.(type) {
			case string:
				hash[k] = val
			case int64:
				hash[k] = "1700000000000"
			}
		}

		got, err := HashToRecord(hash)
		require.NoError(t, err)
		assert.Equal(t, r, got)
	})

	t.Run("rejects corrupt timestamp", func(t *testing.T) {
		_, err := HashToRecord(map[string]string{"created_at_ms": "yesterday"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid created_at_ms")
	})

	t.Run("rejects record missing fields", func(t *testing.T) {
		_, err := HashToRecord(map[string]string{"created_at_ms": "1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupt record")
	})
}
