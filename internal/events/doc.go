// Package events provides view-invalidation events and an in-memory
// emitter. Mutation services emit an event naming the cached views a
// successful write may have changed; handlers (such as the request-scoped
// query cache) react without the services knowing who listens.
package events
