// Package observability provides hooks for change events, metrics and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific backends. Consumers register hooks at startup to receive events
// about library mutations and document store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This keeps pkg/library free of any event transport: the Kafka publisher in
// pkg/events and the CLI's debug logging both plug in here.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLibraryHooks(publisher)
//	    observability.SetStoreHooks(&logHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Library().OnChange(observability.Change{Op: observability.OpAdd, Name: w.Name, Waypoint: &w})
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/waypoints/pkg/waypoint"
)

// =============================================================================
// Library Hooks
// =============================================================================

// Op names a library mutation.
type Op string

// Library mutations reported through [LibraryHooks].
const (
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpRemove  Op = "remove"
	OpClear   Op = "clear"
	OpRestore Op = "restore"
)

// Change describes one successful library mutation.
type Change struct {
	Op   Op
	Name string // waypoint name; empty for clear and restore

	// Waypoint holds the stored value after add and update, nil otherwise.
	Waypoint *waypoint.Waypoint

	// Count is the number of entries affected: removed entries for remove
	// and clear, loaded entries for restore, 1 for add and update.
	Count int
}

// LibraryHooks receives events from library mutations.
// Library operations are synchronous, so hooks must not block.
type LibraryHooks interface {
	OnChange(change Change)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document store operations.
type StoreHooks interface {
	// OnLoad records a document read.
	OnLoad(ctx context.Context, store string, size int, duration time.Duration, err error)

	// OnSave records a document write.
	OnSave(ctx context.Context, store string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLibraryHooks is a no-op implementation of LibraryHooks.
type NoopLibraryHooks struct{}

func (NoopLibraryHooks) OnChange(Change) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	libraryHooks LibraryHooks = NoopLibraryHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	hooksMu      sync.RWMutex
)

// SetLibraryHooks registers custom library hooks.
// This should be called once at application startup before any library operations.
func SetLibraryHooks(h LibraryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		libraryHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Library returns the registered library hooks.
func Library() LibraryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return libraryHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	libraryHooks = NoopLibraryHooks{}
	storeHooks = NoopStoreHooks{}
}
