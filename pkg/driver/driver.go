// Package driver defines the database driver contract and registry for
// dbcomp.
//
// A driver knows how to turn a connection string into a live *sql.DB.
// Concrete implementations live in pkg/drivers/ subdirectories and register
// themselves in their init() functions; import one with a blank identifier
// to make it available:
//
//	import _ "github.com/leapstack-labs/dbcomp/pkg/drivers/postgres"
//
// Whether a driver is registered doubles as the capability check for the
// completion endpoint: a build without the postgres driver linked in reports
// the driver as unavailable instead of failing at query time.
package driver

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
)

// Driver opens database connections from a connection string.
type Driver interface {
	// Name returns the registry name of this driver (e.g. "postgres").
	Name() string

	// Connect opens a connection and verifies it with a ping.
	// The returned handle is owned by the caller and must be closed.
	Connect(ctx context.Context, url string) (*sql.DB, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Driver)
)

// Register adds a driver to the registry.
// Called by driver implementations in their init() functions.
func Register(d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Name()] = d
}

// Lookup retrieves a registered driver by name.
func Lookup(name string) (Driver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[name]
	if !ok {
		return nil, &UnknownDriverError{
			Name:      name,
			Available: listLocked(),
		}
	}
	return d, nil
}

// IsRegistered checks if a driver name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// List returns all registered driver names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return listLocked()
}

func listLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDriverError is returned when an unregistered driver is requested.
type UnknownDriverError struct {
	Name      string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver %q (registered: %v)", e.Name, e.Available)
}
