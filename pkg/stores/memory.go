// pkg/stores/memory.go
package stores

import (
	"context"
	"encoding/json"
	"os"

	"go.uber.org/zap"
)

type memDirectory struct {
	log      *zap.SugaredLogger
	byDomain map[string]Store
}

// SeedEntry is one record of STORE_SEED_JSON.
type SeedEntry struct {
	ID      string `json:"id"`
	Domain  string `json:"domain"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// ParseSeed decodes a STORE_SEED_JSON document.
func ParseSeed(jsonSeed string) ([]SeedEntry, error) {
	if jsonSeed == "" {
		return nil, nil
	}
	var entries []SeedEntry
	if err := json.Unmarshal([]byte(jsonSeed), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// NewMemoryDirectory builds a directory over a fixed store list (dev, tests).
func NewMemoryDirectory(seed []Store) Directory {
	d := &memDirectory{byDomain: map[string]Store{}}
	for _, s := range seed {
		d.byDomain[s.Domain] = s
	}
	return d
}

// NewMemoryDirectoryFromEnv seeds a directory from STORE_SEED_JSON.
func NewMemoryDirectoryFromEnv(log *zap.SugaredLogger) Directory {
	d := &memDirectory{log: log, byDomain: map[string]Store{}}
	entries, err := ParseSeed(os.Getenv("STORE_SEED_JSON"))
	if err != nil {
		log.Warnw("store seed parse", "err", err)
	}
	for _, e := range entries {
		d.byDomain[e.Domain] = Store{ID: e.ID, Domain: e.Domain, Name: e.Name, OwnerID: e.OwnerID}
	}
	return d
}

func (d *memDirectory) ResolveStoreByDomain(ctx context.Context, domain string) (Store, error) {
	if s, ok := d.byDomain[domain]; ok {
		return s, nil
	}
	return Store{}, ErrNotFound
}

func (d *memDirectory) ResolveStoreByID(ctx context.Context, id string) (Store, error) {
	for _, s := range d.byDomain {
		if s.ID == id {
			return s, nil
		}
	}
	return Store{}, ErrNotFound
}
