package catalog

import "strings"

// Source is the record table an item was loaded from. It is the `type`
// discriminator handed to the rendering layer.
type Source string

const (
	SourceService  Source = "service"
	SourceGamepass Source = "gamepass"
)

func ParseSource(s string) (Source, bool) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceService, "services":
		return SourceService, true
	case SourceGamepass, "gamepasses":
		return SourceGamepass, true
	}
	return "", false
}

// Table returns the backing table name.
func (s Source) Table() string {
	if s == SourceGamepass {
		return "gamepasses"
	}
	return "services"
}

// Kind is the derived display category of an item.
type Kind string

const (
	KindJoki     Kind = "joki"
	KindSystem   Kind = "system"
	KindOre      Kind = "ore"
	KindGamepass Kind = "gamepass"
	KindAfk      Kind = "afk"
)

const (
	GamepassPrefix = "GP "
	SystemCategory = "System"

	StockReady = "Ready"
	StockEmpty = "Kosong"
)

type Item struct {
	ID       int64  `json:"id"`
	Source   Source `json:"type"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category,omitempty"`
	Stock    string `json:"stock,omitempty"`
}

type Status struct {
	ID       int64 `json:"id"`
	IsOnline bool  `json:"is_online"`
}

// Classify is the one place the naming conventions are interpreted.
// Every gamepass record is either ore or gamepass, every service record
// is either joki or system.
func Classify(it Item) Kind {
	switch it.Source {
	case SourceGamepass:
		if strings.HasPrefix(it.Name, GamepassPrefix) {
			return KindGamepass
		}
		return KindOre
	default:
		if it.Category == SystemCategory {
			return KindSystem
		}
		return KindJoki
	}
}

// DisplayName strips the gamepass marker.
func DisplayName(name string) string {
	return strings.TrimPrefix(name, GamepassPrefix)
}

// NextStock flips a stock label between the two conventional values.
// Anything that is not "Ready" counts as empty.
func NextStock(current string) string {
	if strings.EqualFold(strings.TrimSpace(current), StockReady) {
		return StockEmpty
	}
	return StockReady
}

func SoldOut(it Item) bool {
	return strings.EqualFold(strings.TrimSpace(it.Stock), StockEmpty)
}

func Tag(items []Item, src Source) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.Source = src
		out[i] = it
	}
	return out
}

// Partition splits items by their derived kind, preserving order.
func Partition(items []Item) map[Kind][]Item {
	out := make(map[Kind][]Item, 4)
	for _, it := range items {
		k := Classify(it)
		out[k] = append(out[k], it)
	}
	return out
}

// StatusLabel is the header text shown for the shop status.
func StatusLabel(online bool) string {
	if online {
		return "Online"
	}
	return "Offline"
}
