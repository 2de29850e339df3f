package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	schema := DefaultSchema()
	migrator := DefaultMigrator(schema)

	testCases := []struct {
		name   string
		label  string
		parent string
		want   string
	}{
		{name: "data bridge", label: "forge-data-bridge", parent: "forge", want: "Forge.TaskRunner-01"},
		{name: "gameboy enhance", label: "forge-gameboy-enhance", parent: "forge", want: "Forge.CodeBuilder-01"},
		{name: "hetzner ops", label: "atlas-hetzner-ops", parent: "atlas", want: "Atlas.OpsRunner-01"},
		{name: "version suffix", label: "echo-landing-v2", parent: "echo", want: "Echo.ContentCreator-02"},
		{name: "audit beats gameboy", label: "sentinel-gameboy-audit", parent: "sentinel", want: "Sentinel.Auditor-01"},
		{name: "videocast with version", label: "forge-videocast-v2", parent: "forge", want: "Forge.CodeBuilder-02"},
		{name: "default fallback", label: "unknown-task", parent: "hunter", want: "Hunter.Researcher-01"},
		{name: "numeric suffix", label: "main-sync-7", parent: "main", want: "Main.Coordinator-07"},
		{name: "two digit suffix", label: "echo-blog-v12", parent: "echo", want: "Echo.ContentCreator-12"},
		{name: "keywords are case-insensitive", label: "Sentinel-Code-REVIEW", parent: "sentinel", want: "Sentinel.Auditor-01"},
		{name: "parent key is case-insensitive", label: "odd-job", parent: "ATLAS", want: "Atlas.OpsRunner-01"},
		{name: "out of range suffix falls back to 01", label: "forge-build-v250", parent: "forge", want: "Forge.CodeBuilder-01"},
		{name: "zero suffix falls back to 01", label: "forge-build-0", parent: "forge", want: "Forge.CodeBuilder-01"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := migrator.Migrate(tc.label, tc.parent)
			require.True(t, ok)
			assert.Equal(t, tc.want, id.String())
			assert.True(t, schema.IsValid(id.String()))
		})
	}
}

func TestMigrate_Failures(t *testing.T) {
	migrator := DefaultMigrator(DefaultSchema())

	testCases := []struct {
		name   string
		label  string
		parent string
	}{
		{name: "empty label", label: "", parent: "forge"},
		{name: "empty parent", label: "x", parent: ""},
		{name: "unknown parent", label: "forge-data-bridge", parent: "bogus"},
		// audit maps to Auditor, which forge may not spawn.
		{name: "rule role not allowed for parent", label: "forge-audit-tool", parent: "forge"},
		// video maps to CodeBuilder, which echo may not spawn; no fallback applies.
		{name: "matched rule blocks fallback", label: "echo-video-production", parent: "echo"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := migrator.Migrate(tc.label, tc.parent)
			assert.False(t, ok)
		})
	}
}

func TestMigrate_CustomRules(t *testing.T) {
	schema := DefaultSchema()
	_, err := schema.RegisterRole(RoleDefinition{Name: "VideoProducer", Abbreviation: "VP", Parents: []string{"echo"}})
	require.NoError(t, err)

	rules := append([]MigrationRule{{Keywords: []string{"video"}, Role: "VideoProducer"}}, DefaultMigrationRules()...)
	migrator, err := NewMigrator(schema, rules, DefaultParentRoles())
	require.NoError(t, err)

	id, ok := migrator.Migrate("echo-video-production", "echo")
	require.True(t, ok)
	assert.Equal(t, "Echo.VideoProducer-01", id.String())
}

func TestMigrate_NoDefaultForParent(t *testing.T) {
	migrator, err := NewMigrator(DefaultSchema(), DefaultMigrationRules(), map[string]string{"forge": "CodeBuilder"})
	require.NoError(t, err)

	_, ok := migrator.Migrate("unknown-task", "hunter")
	assert.False(t, ok)

	role, ok := migrator.TargetRole("unknown-task", "forge")
	require.True(t, ok)
	assert.Equal(t, "CodeBuilder", role)
}

func TestNewMigrator_Validation(t *testing.T) {
	schema := DefaultSchema()

	_, err := NewMigrator(schema, []MigrationRule{{Keywords: []string{"x"}, Role: "Ghost"}}, nil)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = NewMigrator(schema, []MigrationRule{{Role: "Auditor"}}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "keywords are required")

	_, err = NewMigrator(schema, nil, map[string]string{"ghost": "Auditor"})
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = NewMigrator(schema, nil, map[string]string{"forge": "Ghost"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}
