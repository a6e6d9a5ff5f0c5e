package location

import (
	"sync"
	"time"
)

const (
	// maxEntries bounds the cache; one entry per live driver.
	maxEntries = 2048
	// staleAfter is how long an entry survives without an update.
	staleAfter = 15 * time.Minute
)

// Entry is one driver's last reported position plus the contact fields
// the map view renders.
type Entry struct {
	DriverID  uint      `json:"driver_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Heading   float64   `json:"heading"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Cache keeps driver positions in memory only. Positions are a live
// feed, not a record: a restart loses them and the next heartbeat
// repopulates the map. Last write per driver wins.
type Cache struct {
	mu      sync.RWMutex
	drivers map[uint]Entry
}

func NewCache() *Cache {
	return &Cache{drivers: make(map[uint]Entry)}
}

// Update stores a driver's position. When the cache is full, stale
// entries are evicted first; if every entry is fresh the update is
// still applied for already-known drivers but dropped for new ones.
func (c *Cache) Update(e Entry) bool {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, known := c.drivers[e.DriverID]; !known && len(c.drivers) >= maxEntries {
		c.evictStaleLocked(e.Timestamp)
		if len(c.drivers) >= maxEntries {
			return false
		}
	}

	c.drivers[e.DriverID] = e
	return true
}

// Snapshot returns a copy of all fresh entries keyed by driver id.
func (c *Cache) Snapshot() map[uint]Entry {
	cutoff := time.Now().Add(-staleAfter)

	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[uint]Entry, len(c.drivers))
	for id, e := range c.drivers {
		if e.Timestamp.After(cutoff) {
			snapshot[id] = e
		}
	}
	return snapshot
}

// Remove drops one driver, used when a driver goes offline.
func (c *Cache) Remove(driverID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drivers, driverID)
}

func (c *Cache) evictStaleLocked(at time.Time) {
	cutoff := at.Add(-staleAfter)
	for id, e := range c.drivers {
		if !e.Timestamp.After(cutoff) {
			delete(c.drivers, id)
		}
	}
}
