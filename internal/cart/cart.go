package cart

import (
	"math"

	"ForgeStore/internal/catalog"
)

// KeyKind distinguishes real catalog rows from synthesized AFK packages.
type KeyKind uint8

const (
	KeyCatalog KeyKind = iota + 1
	KeyAfk
)

// Key identifies one cart row. Catalog keys carry (Source, ID), AFK keys
// carry the normalized (Base, Extra) selection; the unused half stays zero so
// Key is comparable and usable as a map key.
type Key struct {
	Kind   KeyKind
	Source catalog.Source
	ID     int64
	Base   int
	Extra  int
}

func CatalogKey(src catalog.Source, id int64) Key {
	return Key{Kind: KeyCatalog, Source: src, ID: id}
}

func AfkKey(sel Selection) Key {
	sel = sel.Normalize()
	return Key{Kind: KeyAfk, Base: sel.Base, Extra: sel.Extra}
}

type Entry struct {
	Key  Key
	Kind catalog.Kind
	Item catalog.Item
	Qty  int
}

// Subtotal is the unit price times quantity, capped at math.MaxInt64.
func (e Entry) Subtotal() int64 {
	price, qty := ParsePrice(e.Item.Price), int64(e.Qty)
	if price == 0 || qty <= 0 {
		return 0
	}
	if price > math.MaxInt64/qty {
		return math.MaxInt64
	}
	return price * qty
}

// AllowsMultiple reports whether an item may be bought more than once.
// Everything else behaves as a toggle.
func AllowsMultiple(kind catalog.Kind, name string) bool {
	if kind == catalog.KindOre {
		return true
	}
	return containsFold(name, "raid") || containsFold(name, "boss")
}

// Cart keeps entries in the order they were first added.
type Cart struct {
	order []Key
	rows  map[Key]*Entry
}

func New() *Cart {
	return &Cart{rows: map[Key]*Entry{}}
}

func (c *Cart) Len() int { return len(c.order) }

func (c *Cart) Has(k Key) bool {
	_, ok := c.rows[k]
	return ok
}

func (c *Cart) Qty(k Key) int {
	if e, ok := c.rows[k]; ok {
		return e.Qty
	}
	return 0
}

// Entries returns a snapshot in insertion order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, *c.rows[k])
	}
	return out
}

// Adjust applies one click on a catalog item. Single-unit items toggle and
// ignore delta. Multi-quantity items move by delta and disappear at zero.
func (c *Cart) Adjust(it catalog.Item, delta int) {
	kind := catalog.Classify(it)
	k := CatalogKey(it.Source, it.ID)

	if !AllowsMultiple(kind, it.Name) {
		if c.Has(k) {
			c.Remove(k)
			return
		}
		c.put(Entry{Key: k, Kind: kind, Item: it, Qty: 1})
		return
	}

	e, ok := c.rows[k]
	if !ok {
		if delta > 0 {
			c.put(Entry{Key: k, Kind: kind, Item: it, Qty: delta})
		}
		return
	}
	e.Qty += delta
	if e.Qty <= 0 {
		c.Remove(k)
	}
}

// AddAfk adds the package for sel. Adding the same selection again keeps the
// existing row at quantity 1.
func (c *Cart) AddAfk(sel Selection, rates Rates) Entry {
	sel = sel.Normalize()
	k := AfkKey(sel)
	if e, ok := c.rows[k]; ok {
		return *e
	}
	e := Entry{
		Key:  k,
		Kind: catalog.KindAfk,
		Item: catalog.Item{
			Name:     sel.Label(),
			Price:    FormatRupiah(rates.Price(sel)),
			Category: "Time Based",
		},
		Qty: 1,
	}
	c.put(e)
	return e
}

func (c *Cart) Remove(k Key) {
	if _, ok := c.rows[k]; !ok {
		return
	}
	delete(c.rows, k)
	for i, key := range c.order {
		if key == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.order = nil
	c.rows = map[Key]*Entry{}
}

// Total sums every line subtotal.
func (c *Cart) Total() int64 {
	var total int64
	for _, k := range c.order {
		sub := c.rows[k].Subtotal()
		if sub > math.MaxInt64-total {
			return math.MaxInt64
		}
		total += sub
	}
	return total
}

func (c *Cart) put(e Entry) {
	c.rows[e.Key] = &e
	c.order = append(c.order, e.Key)
}
