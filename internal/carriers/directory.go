package carriers

import (
	"strings"
	"sync"
	"time"
)

// Directory is the local carrier code -> name table consulted when a
// provider response does not name a carrier. Safe for concurrent use.
type Directory struct {
	mu       sync.RWMutex
	names    map[string]string
	loadedAt time.Time
}

func NewDirectory() *Directory {
	return &Directory{names: make(map[string]string)}
}

// Name looks a carrier code up, ignoring case.
func (d *Directory) Name(code string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.names[strings.ToUpper(code)]
	return name, ok
}

// Replace swaps the whole table atomically.
func (d *Directory) Replace(names map[string]string) {
	next := make(map[string]string, len(names))
	for k, v := range names {
		next[strings.ToUpper(k)] = v
	}

	d.mu.Lock()
	d.names = next
	d.loadedAt = time.Now()
	d.mu.Unlock()
}

// Len returns the number of known carriers.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.names)
}

// LoadedAt returns when the table was last replaced (zero if never).
func (d *Directory) LoadedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadedAt
}
