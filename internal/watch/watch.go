// Package watch streams newly issued identifiers as they are written to the registry.
package watch

import (
	"context"
	"fmt"
	"io"

	"github.com/dyluth/fleetid/internal/filter"
	"github.com/dyluth/fleetid/internal/listing"
	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/dyluth/fleetid/pkg/registry"
)

// Subscriber is the subset of registry.Client used for streaming.
type Subscriber interface {
	SubscribeSpawnEvents(ctx context.Context) (*registry.Subscription, error)
}

// Options controls what Stream prints and how.
type Options struct {
	Criteria *filter.Criteria     // nil prints every event
	Format   listing.OutputFormat // default or jsonl
	Schema   *naming.Schema       // used for abbreviated display names
}

// Stream subscribes to spawn events and writes every matching record to w
// until ctx is cancelled or the subscription ends. Malformed events are
// reported to errOut and skipped.
func Stream(ctx context.Context, sub Subscriber, opts Options, w, errOut io.Writer) error {
	subscription, err := sub.SubscribeSpawnEvents(ctx)
	if err != nil {
		return err
	}
	defer subscription.Close()

	events := subscription.Events()
	errs := subscription.Errors()

	for {
		select {
		case <-ctx.Done():
			return nil

		case record, ok := <-events:
			if !ok {
				return nil
			}
			if opts.Criteria != nil && !opts.Criteria.Matches(record) {
				continue
			}
			if err := writeEvent(w, record, opts); err != nil {
				return err
			}

		case err, ok := <-errs:
			if !ok {
				// Errors closes together with events; keep draining events
				errs = nil
				continue
			}
			fmt.Fprintf(errOut, "⚠️  %v\n", err)
		}
	}
}

func writeEvent(w io.Writer, record *registry.SpawnRecord, opts Options) error {
	if opts.Format == listing.OutputFormatJSONL {
		return listing.WriteJSONL(w, []*registry.SpawnRecord{record})
	}

	_, err := fmt.Fprintln(w, FormatEvent(record, opts.Schema))
	return err
}

// FormatEvent renders one record as a human-readable event line.
func FormatEvent(record *registry.SpawnRecord, schema *naming.Schema) string {
	short := record.Identifier
	if schema != nil {
		short = schema.DisplayName(record.Identifier, naming.FormatAbbreviated)
	}

	switch record.Source {
	case registry.SourceMigration:
		return fmt.Sprintf("📦 Migrated: %s (%s) from legacy label '%s'", record.Identifier, short, record.LegacyLabel)
	default:
		return fmt.Sprintf("🆕 Spawned: %s (%s)", record.Identifier, short)
	}
}
