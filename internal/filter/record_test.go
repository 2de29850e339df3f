package filter

import (
	"testing"

	"github.com/dyluth/fleetid/pkg/registry"
	"github.com/stretchr/testify/assert"
)

func record(identifier, parent, role string, source registry.Source, createdAtMs int64) *registry.SpawnRecord {
	return &registry.SpawnRecord{
		Identifier:  identifier,
		ParentKey:   parent,
		Role:        role,
		Source:      source,
		CreatedAtMs: createdAtMs,
	}
}

func TestCriteria_Matches(t *testing.T) {
	r := record("Forge.CodeBuilder-04", "forge", "CodeBuilder", registry.SourceSpawn, 2000)

	testCases := []struct {
		name     string
		criteria Criteria
		want     bool
	}{
		{name: "empty criteria matches everything", criteria: Criteria{}, want: true},
		{name: "since before record", criteria: Criteria{SinceTimestampMs: 1000}, want: true},
		{name: "since after record", criteria: Criteria{SinceTimestampMs: 3000}, want: false},
		{name: "until after record", criteria: Criteria{UntilTimestampMs: 3000}, want: true},
		{name: "until before record", criteria: Criteria{UntilTimestampMs: 1000}, want: false},
		{name: "since equals created", criteria: Criteria{SinceTimestampMs: 2000}, want: true},
		{name: "parent match is case-insensitive", criteria: Criteria{ParentKey: "FORGE"}, want: true},
		{name: "parent mismatch", criteria: Criteria{ParentKey: "echo"}, want: false},
		{name: "role glob prefix", criteria: Criteria{RoleGlob: "Code*"}, want: true},
		{name: "role glob exact", criteria: Criteria{RoleGlob: "CodeBuilder"}, want: true},
		{name: "role glob mismatch", criteria: Criteria{RoleGlob: "*Runner"}, want: false},
		{name: "malformed glob never matches", criteria: Criteria{RoleGlob: "[Code"}, want: false},
		{name: "source match", criteria: Criteria{Source: registry.SourceSpawn}, want: true},
		{name: "source mismatch", criteria: Criteria{Source: registry.SourceMigration}, want: false},
		{
			name:     "all criteria combined",
			criteria: Criteria{SinceTimestampMs: 1000, UntilTimestampMs: 3000, ParentKey: "forge", RoleGlob: "*Builder"},
			want:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.criteria.Matches(r))
		})
	}
}

func TestCriteria_Apply(t *testing.T) {
	records := []*registry.SpawnRecord{
		record("Forge.CodeBuilder-01", "forge", "CodeBuilder", registry.SourceSpawn, 100),
		record("Atlas.TaskRunner-01", "atlas", "TaskRunner", registry.SourceSpawn, 200),
		record("Forge.TaskRunner-03", "forge", "TaskRunner", registry.SourceMigration, 300),
	}

	c := Criteria{RoleGlob: "TaskRunner"}
	got := c.Apply(records)
	assert.Len(t, got, 2)
	assert.Equal(t, "Atlas.TaskRunner-01", got[0].Identifier)
	assert.Equal(t, "Forge.TaskRunner-03", got[1].Identifier)

	empty := Criteria{}
	assert.Equal(t, records, empty.Apply(records))
}

func TestCriteria_HasFilters(t *testing.T) {
	assert.False(t, (&Criteria{}).HasFilters())
	assert.True(t, (&Criteria{ParentKey: "forge"}).HasFilters())
	assert.True(t, (&Criteria{UntilTimestampMs: 1}).HasFilters())
	assert.True(t, (&Criteria{Source: registry.SourceMigration}).HasFilters())
}
