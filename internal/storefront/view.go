package storefront

import (
	"ForgeStore/internal/cart"
	"ForgeStore/internal/catalog"
)

// ItemView is one purchasable row as the storefront renders it.
type ItemView struct {
	ID         int64          `json:"id"`
	Type       catalog.Source `json:"type"`
	Kind       catalog.Kind   `json:"kind"`
	Name       string         `json:"name"`
	Price      string         `json:"price"`
	PriceValue int64          `json:"price_value"`
	Category   string         `json:"category,omitempty"`
	Stock      string         `json:"stock,omitempty"`
	SoldOut    bool           `json:"sold_out"`
	Multi      bool           `json:"multi"`
}

type TierView struct {
	Hours int    `json:"hours"`
	Price int64  `json:"price"`
	Text  string `json:"price_formatted"`
}

type AfkView struct {
	Tiers         []TierView `json:"tiers"`
	ExtraPerHour  int64      `json:"extra_per_hour"`
	MaxExtraHours int        `json:"max_extra_hours"`
	Hint          string     `json:"hint"`
}

type CatalogView struct {
	Online     bool       `json:"is_online"`
	Status     string     `json:"status"`
	Joki       []ItemView `json:"joki"`
	Ores       []ItemView `json:"ores"`
	Gamepasses []ItemView `json:"gamepasses"`
	Afk        AfkView    `json:"afk"`
	ContactURL string     `json:"contact_url"`
}

func itemView(it catalog.Item) ItemView {
	kind := catalog.Classify(it)
	return ItemView{
		ID:         it.ID,
		Type:       it.Source,
		Kind:       kind,
		Name:       catalog.DisplayName(it.Name),
		Price:      it.Price,
		PriceValue: cart.ParsePrice(it.Price),
		Category:   it.Category,
		Stock:      it.Stock,
		SoldOut:    catalog.SoldOut(it),
		Multi:      cart.AllowsMultiple(kind, it.Name),
	}
}

func itemViews(items []catalog.Item) []ItemView {
	out := make([]ItemView, len(items))
	for i, it := range items {
		out[i] = itemView(it)
	}
	return out
}

func afkView(r cart.Rates) AfkView {
	tiers := make([]TierView, 0, cart.MaxBaseHours)
	for h := cart.MinBaseHours; h <= cart.MaxBaseHours; h++ {
		p := r.Tier(h)
		tiers = append(tiers, TierView{Hours: h, Price: p, Text: cart.FormatRupiah(p)})
	}
	return AfkView{
		Tiers:         tiers,
		ExtraPerHour:  r.ExtraPerHour,
		MaxExtraHours: cart.MaxExtraHours,
		Hint:          r.Hint(),
	}
}

func buildView(c catalog.Catalog, contactURL string) CatalogView {
	return CatalogView{
		Online:     c.Online,
		Status:     catalog.StatusLabel(c.Online),
		Joki:       itemViews(c.Joki),
		Ores:       itemViews(c.Ores),
		Gamepasses: itemViews(c.Gamepasses),
		Afk:        afkView(cart.RatesFrom(c.AfkConfig)),
		ContactURL: contactURL,
	}
}

// QuoteView prices one AFK selection.
type QuoteView struct {
	Base      int    `json:"base"`
	Extra     int    `json:"extra"`
	Hours     int    `json:"hours"`
	Label     string `json:"label"`
	Price     int64  `json:"price"`
	PriceText string `json:"price_formatted"`
	Savings   int64  `json:"savings,omitempty"`
}

func quoteView(sel cart.Selection, r cart.Rates) QuoteView {
	sel = sel.Normalize()
	p := r.Price(sel)
	return QuoteView{
		Base:      sel.Base,
		Extra:     sel.Extra,
		Hours:     sel.Hours(),
		Label:     sel.Label(),
		Price:     p,
		PriceText: cart.FormatRupiah(p),
		Savings:   r.Savings(sel),
	}
}
