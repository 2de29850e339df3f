// Package registry is the shared, Redis-backed store of issued agent identifiers.
//
// # Overview
//
// The naming package computes identifiers from a snapshot of what was issued
// before; on its own it cannot stop two callers from computing the same id.
// The registry closes that gap for callers in different processes: every
// identifier is written exactly once per fleet, under a compare-and-set on the
// issued set of its (parent, role) pair.
//
// # Multi-Fleet Support
//
// All keys and Pub/Sub channels are namespaced by fleet name, so independent
// fleets can share one Redis server without seeing each other's identifiers.
//
// # Usage Example
//
//	import "github.com/dyluth/fleetid/pkg/registry"
//
//	alloc := naming.NewAllocator(naming.DefaultSchema())
//	client, err := registry.NewClient(&redis.Options{Addr: "localhost:6379"}, "prod", alloc)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	record, err := client.Spawn(ctx, "forge", "CodeBuilder")
//	// record.Identifier = "Forge.CodeBuilder-01"
//
// # Redis Schema
//
// Every identifier:  fleetid:{fleet}:identifiers (SET)
// Issued per pair:   fleetid:{fleet}:issued:{ParentDisplay}.{Role} (SET)
// Record:            fleetid:{fleet}:record:{identifier} (HASH)
//
// Pub/Sub channel:   fleetid:{fleet}:spawn_events (JSON SpawnRecord)
package registry
