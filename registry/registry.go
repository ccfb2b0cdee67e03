// Package registry maps a catalog backend-type tag to a singleton Driver
// instance (spec.md §4.1 "Driver registry"), the same lazy-singleton shape
// as the teacher's registry.Register/Get (registry/registry.go), but keyed
// by catalog.DatabaseType instead of an open driver-name string and with a
// SupportsSync capability query layered on top (spec.md §9's resolution of
// the relational update/delete open question).
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/riverstack/etlcore/catalog"
	"github.com/riverstack/etlcore/frame"
)

// Driver implements the capability set {create, read, update, delete} over
// a (uri, resource) pair, per spec.md §4.1. Every method is a blocking I/O
// boundary: open a connection, do the operation, close the connection.
type Driver interface {
	// Read fetches all rows of resource and closes the connection.
	Read(ctx context.Context, uri, resource string) (*frame.Frame, error)
	// Create appends every row of df to resource, returning the inserted count.
	Create(ctx context.Context, uri, resource string, df *frame.Frame) (int, error)
	// Update applies df as an upsert-by-index, returning the updated count.
	// Backends that don't support targeted updates (relational, per §9)
	// return a LoadTableError.
	Update(ctx context.Context, uri, resource string, df *frame.Frame) (int, error)
	// Delete removes rows whose index value appears in ids, returning the
	// deleted count. Backends that don't support targeted deletes return a
	// LoadTableError.
	Delete(ctx context.Context, uri, resource string, ids []any) (int, error)
	// SupportsSync reports whether Update/Delete are real implementations
	// rather than erroring stubs.
	SupportsSync() bool
}

// Factory constructs a Driver for one backend-type tag. Drivers hold no
// per-call mutable state — connections are opened and closed per method
// call — so a single Factory result may be shared and invoked concurrently
// from multiple workers (spec.md §5 "Shared resources").
type Factory func() Driver

var (
	mu        sync.RWMutex
	factories = make(map[catalog.DatabaseType]Factory)
	instances = make(map[catalog.DatabaseType]Driver)
)

// Register registers a driver factory under a backend-type tag. Panics on
// duplicate registration, matching the teacher's fail-fast startup
// contract (registry.Register).
func Register(dbType catalog.DatabaseType, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[dbType]; exists {
		panic(fmt.Sprintf("registry: driver %q already registered", dbType))
	}
	factories[dbType] = factory
}

// Get returns the singleton Driver for dbType, constructing it on first
// access (spec.md §5: "lazy singleton; first access wins").
func Get(dbType catalog.DatabaseType) (Driver, error) {
	mu.RLock()
	if d, ok := instances[dbType]; ok {
		mu.RUnlock()
		return d, nil
	}
	factory, ok := factories[dbType]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: no driver registered for backend type %q", dbType)
	}

	mu.Lock()
	defer mu.Unlock()
	if d, ok := instances[dbType]; ok {
		return d, nil
	}
	d := factory()
	instances[dbType] = d
	return d, nil
}

// SupportsSync reports whether the driver registered for dbType implements
// real update/delete semantics. Returns false (rather than erroring) for an
// unregistered type, so callers can use it as a simple guard.
func SupportsSync(dbType catalog.DatabaseType) bool {
	d, err := Get(dbType)
	if err != nil {
		return false
	}
	return d.SupportsSync()
}

// Reset clears all constructed instances (not factories), for test
// isolation between cases that register fakes.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instances = make(map[catalog.DatabaseType]Driver)
}
