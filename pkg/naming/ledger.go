package naming

import (
	"fmt"
	"sync"
)

// Ledger is an in-process record of issued identifiers that makes
// allocate-and-persist atomic. Spawn holds a single lock across reading the
// issued set, computing the next id and recording it, so concurrent callers
// in one process can never be handed the same identifier.
//
// For allocation shared between processes use registry.Client.
type Ledger struct {
	alloc *Allocator

	mu     sync.Mutex
	issued []string
	seen   map[string]struct{}
}

// NewLedger returns a Ledger seeded with identifiers issued earlier.
// Duplicate seeds are recorded once.
func NewLedger(alloc *Allocator, issued ...string) *Ledger {
	l := &Ledger{
		alloc: alloc,
		seen:  make(map[string]struct{}, len(issued)),
	}
	for _, id := range issued {
		l.recordLocked(id)
	}
	return l
}

// Spawn allocates and records the next identifier for (parentKey, role).
func (l *Ledger) Spawn(parentKey, role string) (Identifier, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.alloc.Generate(parentKey, role, l.issued)
	if err != nil {
		return Identifier{}, err
	}

	l.recordLocked(id.String())
	return id, nil
}

// Commit records an identifier produced elsewhere, typically by a Migrator.
// It rejects identifiers that are not valid under the schema and identifiers
// that were already issued.
func (l *Ledger) Commit(identifier string) error {
	if !l.alloc.Schema().IsValid(identifier) {
		return fmt.Errorf("cannot commit '%s': not a valid identifier", identifier)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, dup := l.seen[identifier]; dup {
		return fmt.Errorf("%w: %s", ErrAlreadyIssued, identifier)
	}
	l.recordLocked(identifier)
	return nil
}

// Contains reports whether identifier has been issued.
func (l *Ledger) Contains(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[identifier]
	return ok
}

// Snapshot returns a copy of every issued identifier in issue order.
func (l *Ledger) Snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.issued...)
}

func (l *Ledger) recordLocked(identifier string) {
	if _, dup := l.seen[identifier]; dup {
		return
	}
	l.seen[identifier] = struct{}{}
	l.issued = append(l.issued, identifier)
}
