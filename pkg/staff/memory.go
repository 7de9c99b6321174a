// pkg/staff/memory.go
package staff

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storeauth/pkg/stores"
)

type memProvider struct {
	mu      sync.RWMutex
	log     *zap.SugaredLogger
	byID    map[string]*Member
	byKey   map[string]*Member // principalID+"|"+storeID
}

// NewMemoryProvider builds a provider over a fixed member list (dev, tests).
func NewMemoryProvider(seed []Member) Provider {
	p := &memProvider{byID: map[string]*Member{}, byKey: map[string]*Member{}}
	for i := range seed {
		p.add(seed[i])
	}
	return p
}

// NewMemoryProviderFromEnv seeds from STAFF_SEED_JSON plus the owner bindings
// implied by STORE_SEED_JSON (store creation creates an owner staff member).
func NewMemoryProviderFromEnv(log *zap.SugaredLogger) Provider {
	p := &memProvider{log: log, byID: map[string]*Member{}, byKey: map[string]*Member{}}
	if seed := os.Getenv("STAFF_SEED_JSON"); seed != "" {
		var entries []Member
		if err := json.Unmarshal([]byte(seed), &entries); err != nil {
			log.Warnw("staff seed parse", "err", err)
		}
		for _, m := range entries {
			p.add(m)
		}
	}
	storeSeed, err := stores.ParseSeed(os.Getenv("STORE_SEED_JSON"))
	if err != nil {
		log.Warnw("store seed parse", "err", err)
	}
	for _, e := range storeSeed {
		if e.OwnerID == "" {
			continue
		}
		if _, ok := p.byKey[e.OwnerID+"|"+e.ID]; !ok {
			p.add(Member{StoreID: e.ID, PrincipalID: e.OwnerID, IsOwner: true})
		}
	}
	return p
}

func (p *memProvider) add(m Member) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	cp := m
	p.byID[cp.ID] = &cp
	p.byKey[cp.PrincipalID+"|"+cp.StoreID] = &cp
}

func (p *memProvider) ResolveMember(ctx context.Context, principalID, storeID string) (Member, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if m, ok := p.byKey[principalID+"|"+storeID]; ok {
		return snapshot(m), nil
	}
	return Member{}, ErrNotStaff
}

func (p *memProvider) ListMembers(ctx context.Context, storeID string) ([]Member, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []Member
	for _, m := range p.byID {
		if m.StoreID == storeID {
			out = append(out, snapshot(m))
		}
	}
	return out, nil
}

func (p *memProvider) Grant(ctx context.Context, memberID, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.byID[memberID]
	if !ok {
		return ErrNotStaff
	}
	for _, c := range m.Permissions {
		if c == code {
			return nil
		}
	}
	m.Permissions = append(m.Permissions, code)
	return nil
}

func (p *memProvider) Revoke(ctx context.Context, memberID, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.byID[memberID]
	if !ok {
		return ErrNotStaff
	}
	for i, c := range m.Permissions {
		if c == code {
			m.Permissions = append(m.Permissions[:i], m.Permissions[i+1:]...)
			return nil
		}
	}
	return nil
}

func snapshot(m *Member) Member {
	cp := *m
	cp.Permissions = append([]string(nil), m.Permissions...)
	return cp
}
