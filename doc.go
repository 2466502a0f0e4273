// Package checkout provides a composable checkout flow engine and
// storefront backend-for-frontend for Go. It offers a library-first
// step sequencer, progress computation, lifecycle hooks, a proxy API
// surface over an upstream commerce backend, and a live announcement
// feed.
//
// Checkout is designed as a library, not a service. Import it,
// configure a store, and drive checkout sessions as ordinary Go values.
//
// # Quick Start
//
//	c, err := checkout.New(
//	    checkout.WithStore(memStore),
//	    checkout.WithBackendURL("https://api.example.com"),
//	)
//
// # Architecture
//
// Checkout follows a composable store pattern where each subsystem
// (flow, cart, announce) defines its own store interface. A single
// backend implements all of them.
//
// All entity IDs use TypeID — type-prefixed, K-sortable, UUIDv7-based,
// compile-time safe identifiers.
package checkout
