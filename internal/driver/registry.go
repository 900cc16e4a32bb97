package driver

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownDriver is returned when no driver is registered under a name.
var ErrUnknownDriver = errors.New("unknown database driver")

var (
	registryMu sync.RWMutex
	drivers    = make(map[string]Driver)
	aliases    = make(map[string]string)
)

// Register makes a driver available by its name and aliases.
// It panics if the name or an alias is already taken.
func Register(d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := strings.ToLower(d.Name())
	if _, dup := drivers[name]; dup {
		panic(fmt.Sprintf("driver: Register called twice for %q", name))
	}
	drivers[name] = d
	for _, alias := range d.Aliases() {
		alias = strings.ToLower(alias)
		if _, dup := aliases[alias]; dup {
			panic(fmt.Sprintf("driver: alias %q already registered", alias))
		}
		aliases[alias] = name
	}
}

// Get returns the driver registered under name or one of its aliases.
func Get(name string) (Driver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	d, ok := drivers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownDriver, name, strings.Join(availableLocked(), ", "))
	}
	return d, nil
}

// GetDialect returns the dialect for a driver name, or nil if unregistered.
func GetDialect(name string) Dialect {
	d, err := Get(name)
	if err != nil {
		return nil
	}
	return d.Dialect()
}

// Available returns the sorted primary names of all registered drivers.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return availableLocked()
}

func availableLocked() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
