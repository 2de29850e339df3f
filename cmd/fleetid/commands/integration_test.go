//go:build integration

package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/dyluth/fleetid/internal/testutil"
	"github.com/dyluth/fleetid/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests require a running Docker daemon
// Run with: go test -tags=integration -v ./cmd/fleetid/commands

func TestIntegration_RegistryWorkflow(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	url := testutil.StartRedis(t)
	configPath := filepath.Join(t.TempDir(), "fleetid.yml")

	run := func(args ...string) cliResult {
		return runCLI(t, nil, append([]string{"--config", configPath, "--redis-url", url}, args...)...)
	}

	res := run("init")
	require.NoError(t, res.err, res.stderr)

	res = run("migrate", "forge-gameboy-v7", "--parent", "forge", "--commit")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "forge-gameboy-v7 -> Forge.CodeBuilder-07\n", res.stdout)

	res = run("generate", "forge", "CodeBuilder", "--store", "--count", "2")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, []string{"Forge.CodeBuilder-08", "Forge.CodeBuilder-09"}, lines(res.stdout))

	res = run("list", "--output", "jsonl")
	require.NoError(t, res.err, res.stderr)
	require.Len(t, lines(res.stdout), 3)

	res = run("show", "F.CB-09")
	require.NoError(t, res.err, res.stderr)
	var record registry.SpawnRecord
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &record))
	assert.Equal(t, "Forge.CodeBuilder-09", record.Identifier)
	assert.Equal(t, registry.SourceSpawn, record.Source)
}
