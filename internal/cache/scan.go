package cache

import (
	"encoding/json"
	"time"

	"github.com/MajorE-Garage/arbshift/internal/extract"
)

// ScanCache caches per-file extraction results across runs, memory tier
// over disk tier.
type ScanCache struct {
	memory Cache
	disk   Cache
}

// NewScanCache creates a scan cache persisted under dir.
func NewScanCache(dir string) *ScanCache {
	return &ScanCache{
		memory: NewMemoryCache(15*time.Minute, 10*time.Minute),
		disk:   NewDiskCache(dir, 7*24*time.Hour),
	}
}

// Lookup returns the cached candidates for a file with this exact content.
func (c *ScanCache) Lookup(path string, content []byte) ([]extract.RawCandidate, bool) {
	key := Key(path, content)

	data, found := c.memory.Get(key)
	if !found {
		data, found = c.disk.Get(key)
		if !found {
			return nil, false
		}
		_ = c.memory.Set(key, data, 0)
	}

	var cands []extract.RawCandidate
	if err := json.Unmarshal(data, &cands); err != nil {
		return nil, false
	}
	return cands, true
}

// Store records the candidates extracted from a file with this content.
func (c *ScanCache) Store(path string, content []byte, cands []extract.RawCandidate) {
	data, err := json.Marshal(cands)
	if err != nil {
		return
	}
	key := Key(path, content)
	_ = c.memory.Set(key, data, 0)
	_ = c.disk.Set(key, data, 0)
}

// Clear drops both tiers.
func (c *ScanCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
