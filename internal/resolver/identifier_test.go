package resolver

import (
	"context"
	"fmt"
	"testing"

	"github.com/dyluth/fleetid/internal/testutil"
	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/dyluth/fleetid/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRegistry(t *testing.T, schema *naming.Schema) *registry.Client {
	client, _ := testutil.NewRegistry(t, schema)
	return client
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	schema := naming.DefaultSchema()
	client := setupRegistry(t, schema)

	testutil.SpawnAll(t, client,
		[2]string{"forge", "CodeBuilder"},
		[2]string{"forge", "CodeBuilder"},
		[2]string{"atlas", "OpsRunner"},
	)

	testCases := []struct {
		name     string
		input    string
		want     string
		notFound bool
	}{
		{name: "full identifier", input: "Forge.CodeBuilder-02", want: "Forge.CodeBuilder-02"},
		{name: "abbreviated identifier", input: "F.CB-01", want: "Forge.CodeBuilder-01"},
		{name: "abbreviated other pair", input: "A.OR-01", want: "Atlas.OpsRunner-01"},
		{name: "valid but never issued", input: "Forge.CodeBuilder-09", notFound: true},
		{name: "abbreviation never issued", input: "F.CB-09", notFound: true},
		{name: "garbage", input: "hello", notFound: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(ctx, client, schema, tc.input)
			if tc.notFound {
				require.Error(t, err)
				assert.True(t, IsNotFoundError(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("empty input", func(t *testing.T) {
		_, err := Resolve(ctx, client, schema, "")
		assert.Error(t, err)
		assert.False(t, IsNotFoundError(err))
	})
}

func TestResolve_Ambiguous(t *testing.T) {
	ctx := context.Background()

	// Two parents sharing an initial abbreviate to the same prefix
	parents := append(naming.DefaultParents(), naming.Parent{Key: "foundry", DisplayName: "Foundry"})
	roles := naming.DefaultCoreRoles()
	roles[0].AllowedParents = append(roles[0].AllowedParents, "foundry")
	schema, err := naming.NewSchema(parents, roles)
	require.NoError(t, err)

	client := setupRegistry(t, schema)
	_, err = client.Spawn(ctx, "forge", "TaskRunner")
	require.NoError(t, err)
	_, err = client.Spawn(ctx, "foundry", "TaskRunner")
	require.NoError(t, err)

	_, err = Resolve(ctx, client, schema, "F.TR-01")
	require.Error(t, err)
	require.True(t, IsAmbiguousError(err))

	amb := err.(*AmbiguousError)
	assert.ElementsMatch(t, []string{"Forge.TaskRunner-01", "Foundry.TaskRunner-01"}, amb.Matches)

	msg := FormatAmbiguousError(amb)
	assert.Contains(t, msg, "Forge.TaskRunner-01")
	assert.Contains(t, msg, "Foundry.TaskRunner-01")
}

func TestFormatAmbiguousError_Truncates(t *testing.T) {
	var matches []string
	for i := 1; i <= 13; i++ {
		matches = append(matches, fmt.Sprintf("Forge.TaskRunner-%02d", i))
	}

	msg := FormatAmbiguousError(&AmbiguousError{Input: "x", Matches: matches})
	assert.Contains(t, msg, "matches 13 identifiers")
	assert.Contains(t, msg, "Forge.TaskRunner-10")
	assert.NotContains(t, msg, "Forge.TaskRunner-11")
	assert.Contains(t, msg, "...and 3 more")
}
