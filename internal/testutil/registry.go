// Package testutil provides registry fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/dyluth/fleetid/pkg/registry"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// TestFleet is the fleet name every fixture registry uses.
const TestFleet = "test-fleet"

// NewRegistry starts an in-memory Redis and returns a client for TestFleet
// allocating under schema. Both are torn down when the test ends.
func NewRegistry(t *testing.T, schema *naming.Schema) (*registry.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := registry.NewClient(&redis.Options{Addr: mr.Addr()}, TestFleet, naming.NewAllocator(schema))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

// SpawnAll spawns one identifier per (parent, role) pair in order and
// returns the identifiers issued.
func SpawnAll(t *testing.T, client *registry.Client, pairs ...[2]string) []string {
	t.Helper()

	ids := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		record, err := client.Spawn(context.Background(), pair[0], pair[1])
		require.NoError(t, err, "spawn %s/%s", pair[0], pair[1])
		ids = append(ids, record.Identifier)
	}
	return ids
}
