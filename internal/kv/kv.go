// Package kv is the key-value namespace shared by the capture and app roles.
//
// Both roles open the same suite (a named namespace) through the same driver
// and exchange the auth token, the current user and the pending queue through
// it. Drivers register themselves from init() and are selected by name.
package kv

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// Fixed keys of the shared namespace.
const (
	KeyAuthToken   = "authToken"
	KeyCurrentUser = "currentUser"
	KeyPending     = "pendingBookmarksV2"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kv: key not found")

// Namespace is one suite of keys.
type Namespace interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
	Name() string
}

// UpdateFunc receives the current value (nil and found=false when absent)
// and returns the value to store.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Updater is implemented by drivers that can run a read-modify-write
// atomically. The redis and sqlite drivers are atomic across processes; the
// file driver is across processes only where it can take a file lock.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Config selects and configures a driver.
type Config struct {
	Driver  string         // "file" | "redis" | "sqlite"
	Dir     string         // container directory
	Suite   string         // namespace name
	Options map[string]any // driver-specific, decoded with mapstructure
	Logger  logger.Logger
}

// Factory opens a namespace for a driver.
type Factory func(ctx context.Context, cfg Config) (Namespace, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Factory)
)

// Register makes a driver available by name. Called from driver init().
func Register(name string, f Factory) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = f
}

// Open opens the namespace described by cfg.
func Open(ctx context.Context, cfg Config) (Namespace, error) {
	if cfg.Suite == "" {
		return nil, errors.New("kv: suite name is required")
	}

	driversMu.RLock()
	f, ok := drivers[cfg.Driver]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("kv: unknown driver %q (available: %v)", cfg.Driver, Drivers())
	}

	ns, err := f(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("kv: open %s driver: %w", cfg.Driver, err)
	}
	return ns, nil
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
