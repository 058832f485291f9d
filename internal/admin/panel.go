package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"ForgeStore/internal/catalog"
)

var ErrEmptyPrice = errors.New("price must not be empty")

// View is the admin's local copy of the store. Gamepass-table rows are split
// the same way the storefront splits them.
type View struct {
	Online     bool           `json:"is_online"`
	Services   []catalog.Item `json:"services"`
	Ores       []catalog.Item `json:"ores"`
	Gamepasses []catalog.Item `json:"gamepasses"`
}

func (v *View) group(src catalog.Source, id int64) ([]catalog.Item, int) {
	groups := [][]catalog.Item{v.Services}
	if src == catalog.SourceGamepass {
		groups = [][]catalog.Item{v.Ores, v.Gamepasses}
	}
	for _, g := range groups {
		for i := range g {
			if g[i].ID == id {
				return g, i
			}
		}
	}
	return nil, -1
}

// Panel applies admin edits optimistically to its view, then writes them to
// the store. A failed write always restores the previous value.
type Panel struct {
	mu       sync.Mutex
	store    catalog.Store
	loader   *catalog.Loader
	log      *zap.Logger
	statusID int64
	view     View
	loaded   bool
}

func NewPanel(store catalog.Store, log *zap.Logger) *Panel {
	if log == nil {
		log = zap.NewNop()
	}
	return &Panel{
		store:    store,
		loader:   catalog.NewLoader(store, log),
		log:      log,
		statusID: catalog.DefaultStatusID,
	}
}

// WithStatusID points the panel at a different status record.
func (p *Panel) WithStatusID(id int64) *Panel {
	p.statusID = id
	p.loader.StatusID = id
	return p
}

// Refresh replaces the local view with a fresh load.
func (p *Panel) Refresh(ctx context.Context) View {
	c := p.loader.Load(ctx)

	services := make([]catalog.Item, 0, len(c.Joki)+len(c.AfkConfig))
	services = append(services, c.Joki...)
	services = append(services, c.AfkConfig...)
	sortByID(services)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.view = View{
		Online:     c.Online,
		Services:   services,
		Ores:       c.Ores,
		Gamepasses: c.Gamepasses,
	}
	p.loaded = true
	return p.snapshot()
}

func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

func (p *Panel) snapshot() View {
	return View{
		Online:     p.view.Online,
		Services:   append([]catalog.Item{}, p.view.Services...),
		Ores:       append([]catalog.Item{}, p.view.Ores...),
		Gamepasses: append([]catalog.Item{}, p.view.Gamepasses...),
	}
}

func (p *Panel) UpdatePrice(ctx context.Context, src catalog.Source, id int64, price string) (catalog.Item, error) {
	price = strings.TrimSpace(price)
	if price == "" {
		return catalog.Item{}, ErrEmptyPrice
	}
	return p.edit(ctx, src, id, catalog.FieldPrice, func(it *catalog.Item) string {
		it.Price = price
		return price
	})
}

func (p *Panel) ToggleStock(ctx context.Context, src catalog.Source, id int64) (catalog.Item, error) {
	return p.edit(ctx, src, id, catalog.FieldStock, func(it *catalog.Item) string {
		it.Stock = catalog.NextStock(it.Stock)
		return it.Stock
	})
}

func (p *Panel) edit(ctx context.Context, src catalog.Source, id int64, field catalog.Field, apply func(*catalog.Item) string) (catalog.Item, error) {
	p.mu.Lock()
	g, i := p.view.group(src, id)
	if i < 0 {
		// The row may have been added since the last load.
		p.mu.Unlock()
		p.Refresh(ctx)
		p.mu.Lock()
		g, i = p.view.group(src, id)
	}
	defer p.mu.Unlock()
	if i < 0 {
		return catalog.Item{}, catalog.ErrNotFound
	}

	prev := g[i]
	value := apply(&g[i])

	if err := p.store.UpdateField(ctx, src, id, field, value); err != nil {
		g[i] = prev
		p.log.Warn("admin edit rolled back",
			zap.String("source", string(src)),
			zap.Int64("id", id),
			zap.String("field", string(field)),
			zap.Error(err),
		)
		return prev, fmt.Errorf("update %s %s/%d: %w", field, src, id, err)
	}

	p.log.Info("admin edit saved",
		zap.String("source", string(src)),
		zap.Int64("id", id),
		zap.String("field", string(field)),
		zap.String("value", value),
	)
	return g[i], nil
}

// SetOnline flips the shop status. The returned flag is the value now shown,
// which is the previous one if the write failed.
func (p *Panel) SetOnline(ctx context.Context, online bool) (bool, error) {
	p.mu.Lock()
	if !p.loaded {
		// Nothing shown yet, so the rollback value has to come from the store.
		p.mu.Unlock()
		p.Refresh(ctx)
		p.mu.Lock()
	}
	defer p.mu.Unlock()

	prev := p.view.Online
	p.view.Online = online

	if err := p.store.SetOnline(ctx, p.statusID, online); err != nil {
		p.view.Online = prev
		p.log.Warn("status edit rolled back", zap.Bool("online", online), zap.Error(err))
		return prev, fmt.Errorf("update status: %w", err)
	}

	p.log.Info("status saved", zap.Bool("online", online))
	return online, nil
}

func sortByID(items []catalog.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}
