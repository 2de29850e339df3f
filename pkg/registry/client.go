package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultMaxRetries is the compare-and-set retry budget used when no
// WithMaxRetries option is given.
const DefaultMaxRetries = 32

// ErrContention is returned when a write loses the compare-and-set race more
// times than the retry budget allows.
var ErrContention = errors.New("allocation contention: retry budget exhausted")

// Client provides fleet-scoped Redis operations for the identifier registry.
// All keys and channels are namespaced with the fleet name.
// The client is thread-safe and can be used concurrently from multiple goroutines
// and from multiple processes sharing one Redis server.
type Client struct {
	rdb        *redis.Client
	fleet      string
	alloc      *naming.Allocator
	maxRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithMaxRetries sets the compare-and-set retry budget. Values below 1 are ignored.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 1 {
			c.maxRetries = n
		}
	}
}

// NewClient creates a registry client for the specified fleet.
//
// Parameters:
//   - redisOpts: Redis connection options (address, password, DB, etc.)
//   - fleet: fleet namespace (must not be empty)
//   - alloc: allocator carrying the naming schema identifiers are checked against
//
// Returns an error if fleet is empty or alloc is nil.
func NewClient(redisOpts *redis.Options, fleet string, alloc *naming.Allocator, opts ...Option) (*Client, error) {
	if fleet == "" {
		return nil, fmt.Errorf("fleet name cannot be empty")
	}
	if alloc == nil {
		return nil, fmt.Errorf("allocator cannot be nil")
	}

	c := &Client{
		rdb:        redis.NewClient(redisOpts),
		fleet:      fleet,
		alloc:      alloc,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Fleet returns the namespace this client writes to.
func (c *Client) Fleet() string {
	return c.fleet
}

// Spawn allocates the next identifier for (parentKey, role), persists its
// record and publishes it on the spawn events channel.
//
// Allocation is a compare-and-set on the per-pair issued set: the set is
// watched, the next id is computed from its members and the write only
// commits if no other client touched the set in between. A lost race is
// retried against a fresh snapshot, so two callers in different processes
// can never be handed the same identifier.
func (c *Client) Spawn(ctx context.Context, parentKey, role string) (*SpawnRecord, error) {
	parent, r, err := c.alloc.Resolve(parentKey, role)
	if err != nil {
		return nil, err
	}

	pairKey := IssuedKey(c.fleet, parent.DisplayName, r.Name)

	record, err := c.casWrite(ctx, pairKey, func(tx *redis.Tx) (*SpawnRecord, error) {
		existing, err := tx.SMembers(ctx, pairKey).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read issued identifiers: %w", err)
		}

		id, err := c.alloc.Generate(parent.Key, r.Name, existing)
		if err != nil {
			return nil, err
		}

		return &SpawnRecord{
			ID:          uuid.New().String(),
			Identifier:  id.String(),
			ParentKey:   parent.Key,
			Role:        r.Name,
			InstanceID:  string(id.InstanceID),
			Source:      SourceSpawn,
			CreatedAtMs: time.Now().UnixMilli(),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.publish(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Commit persists an identifier produced by the legacy migrator.
// Rejects identifiers that are not valid under the schema and identifiers
// that were already issued (naming.ErrAlreadyIssued).
func (c *Client) Commit(ctx context.Context, identifier, legacyLabel string) (*SpawnRecord, error) {
	parsed, ok := c.alloc.Schema().Parse(identifier)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("cannot commit '%s': not a valid identifier", identifier)
	}

	pairKey := IssuedKey(c.fleet, parsed.ParentDisplay, parsed.Role)

	record, err := c.casWrite(ctx, pairKey, func(tx *redis.Tx) (*SpawnRecord, error) {
		issued, err := tx.SIsMember(ctx, pairKey, identifier).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check issued identifiers: %w", err)
		}
		if issued {
			return nil, fmt.Errorf("%w: %s", naming.ErrAlreadyIssued, identifier)
		}

		return &SpawnRecord{
			ID:          uuid.New().String(),
			Identifier:  identifier,
			ParentKey:   parsed.ParentKey,
			Role:        parsed.Role,
			InstanceID:  string(parsed.InstanceID),
			Source:      SourceMigration,
			LegacyLabel: legacyLabel,
			CreatedAtMs: time.Now().UnixMilli(),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.publish(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// casWrite runs build inside WATCH pairKey and commits the record it returns
// in a MULTI/EXEC block. redis.TxFailedErr means another client changed the
// pair first; the whole read-compute-write is then repeated.
func (c *Client) casWrite(ctx context.Context, pairKey string, build func(tx *redis.Tx) (*SpawnRecord, error)) (*SpawnRecord, error) {
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		var record *SpawnRecord

		err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
			var err error
			record, err = build(tx)
			if err != nil {
				return err
			}

			if err := record.Validate(); err != nil {
				return fmt.Errorf("invalid record: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.SAdd(ctx, pairKey, record.Identifier)
				pipe.SAdd(ctx, IdentifiersKey(c.fleet), record.Identifier)
				pipe.HSet(ctx, RecordKey(c.fleet, record.Identifier), RecordToHash(record))
				return nil
			})
			return err
		}, pairKey)

		if err == nil {
			c.logEvent("identifier_issued", map[string]interface{}{
				"identifier": record.Identifier,
				"source":     string(record.Source),
				"attempt":    attempt,
			})
			return record, nil
		}

		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}

		c.logEvent("allocation_conflict", map[string]interface{}{
			"key":     pairKey,
			"attempt": attempt,
		})
	}

	return nil, fmt.Errorf("%w (%d attempts on %s)", ErrContention, c.maxRetries, pairKey)
}

func (c *Client) publish(ctx context.Context, record *SpawnRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record for event: %w", err)
	}

	if err := c.rdb.Publish(ctx, SpawnEventsChannel(c.fleet), recordJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish spawn event: %w", err)
	}
	return nil
}

// GetRecord retrieves the record for a full identifier.
// Returns (nil, redis.Nil) if the identifier was never issued.
// Use IsNotFound() to check for not-found errors.
func (c *Client) GetRecord(ctx context.Context, identifier string) (*SpawnRecord, error) {
	hashData, err := c.rdb.HGetAll(ctx, RecordKey(c.fleet, identifier)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read record from Redis: %w", err)
	}

	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	record, err := HashToRecord(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize record %s: %w", identifier, err)
	}
	return record, nil
}

// Identifiers returns every issued identifier in the fleet, sorted.
func (c *Client) Identifiers(ctx context.Context) ([]string, error) {
	ids, err := c.rdb.SMembers(ctx, IdentifiersKey(c.fleet)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read identifiers: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Issued returns the identifiers issued for one (parentKey, role) pair.
func (c *Client) Issued(ctx context.Context, parentKey, role string) ([]string, error) {
	parent, r, err := c.alloc.Resolve(parentKey, role)
	if err != nil {
		return nil, err
	}

	ids, err := c.rdb.SMembers(ctx, IssuedKey(c.fleet, parent.DisplayName, r.Name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read issued identifiers: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// ListRecords returns every record in the fleet ordered by creation time,
// oldest first. Ties are broken by identifier.
func (c *Client) ListRecords(ctx context.Context) ([]*SpawnRecord, error) {
	ids, err := c.Identifiers(ctx)
	if err != nil {
		return nil, err
	}

	pipe := c.rdb.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, RecordKey(c.fleet, id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to read records: %w", err)
		}
	}

	records := make([]*SpawnRecord, 0, len(ids))
	for i, cmd := range cmds {
		hash := cmd.Val()
		if len(hash) == 0 {
			// Set member without a record hash; skip rather than fail the listing
			c.logEvent("record_missing", map[string]interface{}{"identifier": ids[i]})
			continue
		}
		record, err := HashToRecord(hash)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize record %s: %w", ids[i], err)
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAtMs != records[j].CreatedAtMs {
			return records[i].CreatedAtMs < records[j].CreatedAtMs
		}
		return records[i].Identifier < records[j].Identifier
	})

	return records, nil
}

// Subscription represents an active Pub/Sub subscription to spawn events.
// Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan *SpawnRecord
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of spawn events.
// The channel will be closed when the subscription is closed or the context is cancelled.
func (s *Subscription) Events() <-chan *SpawnRecord {
	return s.events
}

// Errors returns the channel of subscription errors.
// The subscription continues after errors - malformed messages are skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Implements io.Closer.
// Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeSpawnEvents subscribes to records written by Spawn and Commit.
// Events are delivered on a buffered channel (size 10). Redis Pub/Sub is
// at-most-once: records issued while nobody listens are not replayed.
func (c *Client) SubscribeSpawnEvents(ctx context.Context) (*Subscription, error) {
	pubsub := c.rdb.Subscribe(ctx, SpawnEventsChannel(c.fleet))

	// Wait for the subscription to be confirmed so no event published after
	// this call returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to spawn events: %w", err)
	}

	eventsChan := make(chan *SpawnRecord, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var record SpawnRecord
				if err := json.Unmarshal([]byte(msg.Payload), &record); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal spawn event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &record:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// IsNotFound returns true if the error is a Redis "key not found" error (redis.Nil).
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
