package registry

import "fmt"

// Redis key pattern helpers
//
// All keys and channels are namespaced by fleet name so several fleets can
// share one Redis server.
//
// Key pattern: fleetid:{fleet}:{entity}[:{id}]
// Channel pattern: fleetid:{fleet}:{event_type}_events

// IdentifiersKey returns the key of the set holding every issued identifier.
// Pattern: fleetid:{fleet}:identifiers
func IdentifiersKey(fleet string) string {
	return fmt.Sprintf("fleetid:%s:identifiers", fleet)
}

// IssuedKey returns the key of the per-pair issued set. Allocation watches
// this key, so concurrent spawns for one (parent, role) pair serialise on it
// while other pairs proceed independently.
// Pattern: fleetid:{fleet}:issued:{ParentDisplay}.{Role}
func IssuedKey(fleet, parentDisplay, role string) string {
	return fmt.Sprintf("fleetid:%s:issued:%s.%s", fleet, parentDisplay, role)
}

// RecordKey returns the key of the hash holding one identifier's record.
// Pattern: fleetid:{fleet}:record:{identifier}
func RecordKey(fleet, identifier string) string {
	return fmt.Sprintf("fleetid:%s:record:%s", fleet, identifier)
}

// SpawnEventsChannel returns the Pub/Sub channel carrying new records.
// Pattern: fleetid:{fleet}:spawn_events
func SpawnEventsChannel(fleet string) string {
	return fmt.Sprintf("fleetid:%s:spawn_events", fleet)
}
