// Package naming allocates, parses and formats sub-agent identifiers.
//
// # Overview
//
// Parent agents in a fleet spawn short-lived sub-agents. Every sub-agent is
// addressed by an identifier that encodes its lineage, its function and an
// instance index:
//
//	Forge.CodeBuilder-01
//	^     ^           ^
//	|     |           instance id: 01..99, then A1..Z9
//	|     role
//	parent display name
//
// The abbreviated display form is "F.CB-01".
//
// # Components
//
// Schema holds the parent and role registries. Core roles are fixed when the
// schema is built; custom roles can be appended with RegisterRole and are
// never removed.
//
// Allocator computes the next identifier for a (parent, role) pair from the
// set of identifiers already issued. It is stateless: callers pass the
// issued set in on every call and persist the result themselves.
//
// Schema.Parse and Schema.DisplayName accept untrusted strings and never
// fail; invalid input yields a false result or is returned verbatim.
//
// Migrator maps free-form legacy labels such as "echo-landing-v2" onto
// canonical identifiers using ordered keyword rules.
//
// # Concurrency
//
// Allocator.Generate is a pure function of its inputs. Two callers holding
// the same snapshot of issued identifiers get the same answer, so anything
// that spawns concurrently must serialize allocate-and-persist. Ledger does
// this in-process with a mutex; the registry package does it across
// processes with a Redis compare-and-set.
//
// # Usage Example
//
//	schema := naming.DefaultSchema()
//	alloc := naming.NewAllocator(schema)
//
//	id, err := alloc.Generate("forge", "CodeBuilder", issued)
//	if err != nil {
//		log.Fatal(err)
//	}
//	// id.String() = "Forge.CodeBuilder-04" when issued holds -01 and -03
//
//	schema.DisplayName(id.String(), naming.FormatAbbreviated) // "F.CB-04"
package naming
