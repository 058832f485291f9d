package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu         sync.RWMutex
	services   map[int64]Item
	gamepasses map[int64]Item
	status     map[int64]Status
}

func NewMemStore() *MemStore {
	return &MemStore{
		services:   map[int64]Item{},
		gamepasses: map[int64]Item{},
		status:     map[int64]Status{},
	}
}

// NewSeededMemStore returns a store holding the demo price list.
func NewSeededMemStore() *MemStore {
	s := NewMemStore()
	s.PutService(Item{ID: 1, Name: "Joki Level 1-50", Price: "Rp 15.000", Category: "Leveling"})
	s.PutService(Item{ID: 2, Name: "Joki Raid Boss", Price: "Rp 10.000", Category: "Raid"})
	s.PutService(Item{ID: 3, Name: "Unlock Forge Tier 2", Price: "Rp 25.000", Category: "Progress"})
	s.PutService(Item{ID: 50, Name: "AFK 1 Jam", Price: "Rp 20.000", Category: SystemCategory})
	s.PutService(Item{ID: 51, Name: "AFK Extra Per Jam", Price: "Rp 15.000", Category: SystemCategory})
	s.PutGamepass(Item{ID: 1, Name: "Iron Ore x100", Price: "Rp 5.000", Stock: StockReady})
	s.PutGamepass(Item{ID: 2, Name: "Mythril Ore x10", Price: "Rp 12.000", Stock: StockEmpty})
	s.PutGamepass(Item{ID: 3, Name: "GP VIP", Price: "Rp 50.000", Stock: StockReady})
	s.PutGamepass(Item{ID: 4, Name: "GP 2x Drop", Price: "Rp 35.000", Stock: StockReady})
	s.PutStatus(Status{ID: DefaultStatusID, IsOnline: true})
	return s
}

func (s *MemStore) PutService(it Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it.Source = SourceService
	s.services[it.ID] = it
}

func (s *MemStore) PutGamepass(it Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it.Source = SourceGamepass
	s.gamepasses[it.ID] = it
}

func (s *MemStore) PutStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[st.ID] = st
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListServices(ctx context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.services), nil
}

func (s *MemStore) ListGamepasses(ctx context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.gamepasses), nil
}

func (s *MemStore) GetStatus(ctx context.Context, id int64) (Status, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.status[id]
	return st, ok, nil
}

func (s *MemStore) UpdateField(ctx context.Context, src Source, id int64, field Field, value string) error {
	if !field.valid() {
		return ErrUnknownField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.services
	if src == SourceGamepass {
		m = s.gamepasses
	}
	it, ok := m[id]
	if !ok {
		return ErrNotFound
	}
	switch field {
	case FieldPrice:
		it.Price = value
	case FieldStock:
		it.Stock = value
	}
	m[id] = it
	return nil
}

func (s *MemStore) SetOnline(ctx context.Context, id int64, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[id]
	if !ok {
		return ErrNotFound
	}
	st.IsOnline = online
	s.status[id] = st
	return nil
}

func sortedByID(m map[int64]Item) []Item {
	out := make([]Item, 0, len(m))
	for _, it := range m {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
