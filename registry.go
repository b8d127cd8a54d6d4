package molt

import (
	"sort"
	"sync"
)

var (
	registry   = make(map[Format]Codec)
	registryMu sync.RWMutex
)

// Register binds a codec to a format, replacing any previous binding.
func Register(f Format, c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[f] = c
}

// Lookup returns the codec registered for a format.
func Lookup(f Format) (Codec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[f]
	return c, ok
}

// Formats returns the registered formats in stable order.
func Formats() []Format {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Format, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset clears the codec registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[Format]Codec)
}
