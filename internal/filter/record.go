// Package filter selects registry records for list and watch output.
package filter

import (
	"path/filepath"
	"strings"

	"github.com/dyluth/fleetid/pkg/registry"
)

// Criteria defines filtering criteria for spawn records.
// All filters are ANDed together - a record must match ALL criteria to pass.
type Criteria struct {
	SinceTimestampMs int64           // Unix timestamp in milliseconds, 0 = no filter
	UntilTimestampMs int64           // Unix timestamp in milliseconds, 0 = no filter
	ParentKey        string          // Case-insensitive parent key, empty = no filter
	RoleGlob         string          // Glob pattern for role name, empty = no filter
	Source           registry.Source // Exact source, empty = no filter
}

// Matches returns true if the record matches all filter criteria.
// Empty/zero criteria values are treated as "match all" for that criterion.
func (c *Criteria) Matches(r *registry.SpawnRecord) bool {
	if c.SinceTimestampMs > 0 && r.CreatedAtMs < c.SinceTimestampMs {
		return false
	}
	if c.UntilTimestampMs > 0 && r.CreatedAtMs > c.UntilTimestampMs {
		return false
	}

	if c.ParentKey != "" && !strings.EqualFold(c.ParentKey, r.ParentKey) {
		return false
	}

	if c.RoleGlob != "" {
		matched, err := filepath.Match(c.RoleGlob, r.Role)
		if err != nil || !matched {
			return false
		}
	}

	if c.Source != "" && r.Source != c.Source {
		return false
	}

	return true
}

// Apply returns the records that match, preserving order.
func (c *Criteria) Apply(records []*registry.SpawnRecord) []*registry.SpawnRecord {
	if !c.HasFilters() {
		return records
	}
	out := make([]*registry.SpawnRecord, 0, len(records))
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// HasFilters returns true if any filters are active.
func (c *Criteria) HasFilters() bool {
	return c.SinceTimestampMs > 0 ||
		c.UntilTimestampMs > 0 ||
		c.ParentKey != "" ||
		c.RoleGlob != "" ||
		c.Source != ""
}
