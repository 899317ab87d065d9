package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"tour-route-service/internal/domain"
)

// FileCoordinateCache persists normalized-name -> [lat, lon] entries in
// a flat JSON file, the store format the service has always used, so an
// existing cache file keeps working. The full map is held in memory;
// every Put rewrites the file through a temp-file rename, so a crash
// loses at most the entry being written.
type FileCoordinateCache struct {
	path string

	mu      sync.RWMutex
	entries map[string]domain.Coordinates
}

// NewFileCoordinateCache loads the store at path. A missing file starts
// an empty cache; unparseable entries are skipped rather than aborting.
func NewFileCoordinateCache(path string) (*FileCoordinateCache, error) {
	c := &FileCoordinateCache{
		path:    path,
		entries: make(map[string]domain.Coordinates),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("coordinate cache: read %q: %w", path, err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Printf("coordinate cache: %q is not a JSON object, starting empty: %v", path, err)
		return c, nil
	}

	for key, msg := range decoded {
		var pair []float64
		if err := json.Unmarshal(msg, &pair); err != nil || len(pair) < 2 {
			log.Printf("coordinate cache: skipping unparseable entry %q", key)
			continue
		}
		c.entries[key] = domain.Coordinates{Lat: pair[0], Lon: pair[1]}
	}

	return c, nil
}

func (c *FileCoordinateCache) Get(_ context.Context, key string) (domain.Coordinates, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coords, ok := c.entries[key]
	return coords, ok, nil
}

// Put stores and immediately persists the entry (write-through).
func (c *FileCoordinateCache) Put(_ context.Context, key string, coords domain.Coordinates) error {
	if key == "" {
		return errors.New("coordinate cache: key must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = coords
	if err := c.flushLocked(); err != nil {
		return fmt.Errorf("coordinate cache: persist %q: %w", key, err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *FileCoordinateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *FileCoordinateCache) flushLocked() error {
	out := make(map[string][2]float64, len(c.entries))
	for key, coords := range c.entries {
		out[key] = [2]float64{coords.Lat, coords.Lon}
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".geocode-cache-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}
