package storefront

import (
	"errors"
	"fmt"

	"ForgeStore/internal/cart"
	"ForgeStore/internal/catalog"
)

var (
	ErrUnknownSource  = errors.New("unknown item type")
	ErrUnknownItem    = errors.New("unknown item")
	ErrNotPurchasable = errors.New("item is not purchasable")
	ErrDuplicateLine  = errors.New("item listed more than once")
	ErrSingleQuantity = errors.New("item can only be ordered once")
)

type checkoutReq struct {
	Items []orderItem `json:"items" validate:"dive"`
	Afk   []afkPick   `json:"afk" validate:"dive"`
}

type orderItem struct {
	Type string `json:"type" validate:"required"`
	ID   int64  `json:"id" validate:"required,min=1"`
	Qty  int    `json:"qty" validate:"omitempty,min=1,max=999"`
}

type afkPick struct {
	Base  int `json:"base" validate:"min=1,max=5"`
	Extra int `json:"extra" validate:"min=0,max=19"`
}

// LineError points at the request line that could not be added.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string { return fmt.Sprintf("items[%d]: %v", e.Index, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

// buildCart replays the requested selections against the loaded catalog.
// Prices always come from the catalog, never from the request.
func buildCart(req checkoutReq, c catalog.Catalog) (*cart.Cart, error) {
	out := cart.New()
	seen := make(map[cart.Key]struct{}, len(req.Items))

	for i, line := range req.Items {
		src, ok := catalog.ParseSource(line.Type)
		if !ok {
			return nil, &LineError{Index: i, Err: ErrUnknownSource}
		}
		it, ok := c.Find(src, line.ID)
		if !ok {
			return nil, &LineError{Index: i, Err: ErrUnknownItem}
		}
		kind := catalog.Classify(it)
		if kind == catalog.KindSystem {
			return nil, &LineError{Index: i, Err: ErrNotPurchasable}
		}

		k := cart.CatalogKey(src, it.ID)
		if _, dup := seen[k]; dup {
			return nil, &LineError{Index: i, Err: ErrDuplicateLine}
		}
		seen[k] = struct{}{}

		qty := max(line.Qty, 1)
		if qty > 1 && !cart.AllowsMultiple(kind, it.Name) {
			return nil, &LineError{Index: i, Err: ErrSingleQuantity}
		}
		out.Adjust(it, qty)
	}

	rates := cart.RatesFrom(c.AfkConfig)
	for _, p := range req.Afk {
		out.AddAfk(cart.Selection{Base: p.Base, Extra: p.Extra}, rates)
	}
	return out, nil
}
