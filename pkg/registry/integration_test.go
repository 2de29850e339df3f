//go:build integration

package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer starts a real Redis server and returns its URL.
func setupRedisContainer(t *testing.T) (string, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisURL := fmt.Sprintf("redis://%s:%s", host, port.Port())

	cleanup := func() {
		if err := redisC.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate Redis container: %v", err)
		}
	}

	return redisURL, cleanup
}

// TestIntegration_ConcurrentSpawnAcrossClients hammers one pair from many
// independent connections against a real Redis server.
func TestIntegration_ConcurrentSpawnAcrossClients(t *testing.T) {
	redisURL, cleanup := setupRedisContainer(t)
	defer cleanup()

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const workers = 8
	const perWorker = 15

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]int)

	for w := 0; w < workers; w++ {
		client, err := NewClient(opts, "integration", naming.NewAllocator(naming.DefaultSchema()), WithMaxRetries(256))
		require.NoError(t, err)
		defer client.Close()

		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				record, err := c.Spawn(ctx, "forge", "TaskRunner")
				if err != nil {
					t.Errorf("spawn failed: %v", err)
					return
				}
				mu.Lock()
				seen[record.Identifier]++
				mu.Unlock()
			}
		}(client)
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
	for id, n := range seen {
		assert.Equal(t, 1, n, "identifier %s issued %d times", id, n)
	}

	// 120 allocations run through 01..99 and into the alphanumeric range
	assert.Contains(t, seen, "Forge.TaskRunner-99")
	assert.Contains(t, seen, "Forge.TaskRunner-A1")
	assert.Contains(t, seen, "Forge.TaskRunner-C3")
}

// TestIntegration_SpawnEventsReachSubscriber verifies pub/sub delivery on a real server.
func TestIntegration_SpawnEventsReachSubscriber(t *testing.T) {
	redisURL, cleanup := setupRedisContainer(t)
	defer cleanup()

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	client, err := NewClient(opts, "integration", naming.NewAllocator(naming.DefaultSchema()))
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	sub, err := client.SubscribeSpawnEvents(ctx)
	require.NoError(t, err)
	defer sub.Close()

	record, err := client.Commit(ctx, "Echo.ContentCreator-05", "echo-content-v5")
	require.NoError(t, err)

	select {
	case event := <-sub.Events():
		assert.Equal(t, record.Identifier, event.Identifier)
		assert.Equal(t, SourceMigration, event.Source)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for spawn event")
	}
}
