package catalog

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Catalog is one page load worth of records, already partitioned.
type Catalog struct {
	Online bool

	Joki       []Item
	AfkConfig  []Item
	Ores       []Item
	Gamepasses []Item
}

// Find looks up a record by its source and id.
func (c Catalog) Find(src Source, id int64) (Item, bool) {
	var groups [][]Item
	if src == SourceGamepass {
		groups = [][]Item{c.Ores, c.Gamepasses}
	} else {
		groups = [][]Item{c.Joki, c.AfkConfig}
	}
	for _, g := range groups {
		for _, it := range g {
			if it.ID == id {
				return it, true
			}
		}
	}
	return Item{}, false
}

type Loader struct {
	Store    Store
	Log      *zap.Logger
	StatusID int64
}

func NewLoader(store Store, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{Store: store, Log: log, StatusID: DefaultStatusID}
}

// Load runs the three reads independently. A failed or empty read leaves
// its part of the catalog empty (or offline); Load itself never fails.
func (l *Loader) Load(ctx context.Context) Catalog {
	var (
		services, gamepasses []Item
		status               Status
	)

	var g errgroup.Group
	g.Go(func() error {
		items, err := l.Store.ListServices(ctx)
		if err != nil {
			l.Log.Warn("load services failed", zap.Error(err))
			return nil
		}
		services = Tag(items, SourceService)
		return nil
	})
	g.Go(func() error {
		items, err := l.Store.ListGamepasses(ctx)
		if err != nil {
			l.Log.Warn("load gamepasses failed", zap.Error(err))
			return nil
		}
		gamepasses = Tag(items, SourceGamepass)
		return nil
	})
	g.Go(func() error {
		st, ok, err := l.Store.GetStatus(ctx, l.StatusID)
		if err != nil {
			l.Log.Warn("load status failed", zap.Error(err), zap.Int64("status_id", l.StatusID))
			return nil
		}
		if ok {
			status = st
		}
		return nil
	})
	_ = g.Wait()

	sp := Partition(services)
	gp := Partition(gamepasses)

	return Catalog{
		Online:     status.IsOnline,
		Joki:       orEmpty(sp[KindJoki]),
		AfkConfig:  orEmpty(sp[KindSystem]),
		Ores:       orEmpty(gp[KindOre]),
		Gamepasses: orEmpty(gp[KindGamepass]),
	}
}

func orEmpty(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
