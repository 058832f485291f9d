package cart

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ForgeStore/internal/catalog"
)

var idr = message.NewPrinter(language.Indonesian)

// MaxPrice is the largest unit price ParsePrice accepts.
const MaxPrice int64 = 1_000_000_000_000_000

// ParsePrice reads a localized amount such as "Rp 10.000" by dropping every
// non-digit. Empty, unparseable or out-of-range input yields 0.
func ParsePrice(s string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > MaxPrice {
		return 0
	}
	return n
}

// FormatRupiah renders n with id-ID digit grouping, e.g. "Rp 60.000".
func FormatRupiah(n int64) string {
	return "Rp " + idr.Sprintf("%d", n)
}

// shortRupiah renders round thousands as "55K" for hint text.
func shortRupiah(n int64) string {
	if n >= 1000 && n%1000 == 0 {
		return strconv.FormatInt(n/1000, 10) + "K"
	}
	return FormatRupiah(n)
}

const (
	MinBaseHours  = 1
	MaxBaseHours  = 5
	MaxExtraHours = 19
)

// Names of the System-category records that override AFK rates.
const (
	extraRateName = "AFK Extra Per Jam"
)

func tierRateName(hours int) string {
	return fmt.Sprintf("AFK %d Jam", hours)
}

var defaultTiers = [MaxBaseHours]int64{20000, 40000, 55000, 65000, 75000}

const defaultExtraPerHour int64 = 15000

// Rates is the AFK price table.
type Rates struct {
	Tiers        [MaxBaseHours]int64 `json:"tiers"`
	ExtraPerHour int64               `json:"extra_per_hour"`
}

func DefaultRates() Rates {
	return Rates{Tiers: defaultTiers, ExtraPerHour: defaultExtraPerHour}
}

// RatesFrom applies overrides from System-category records, matched by exact
// name. Records that are not System items or whose price parses to 0 are
// ignored.
func RatesFrom(items []catalog.Item) Rates {
	r := DefaultRates()
	byName := make(map[string]int64, len(items))
	for _, it := range items {
		if catalog.Classify(it) != catalog.KindSystem {
			continue
		}
		if p := ParsePrice(it.Price); p > 0 {
			byName[it.Name] = p
		}
	}
	for h := MinBaseHours; h <= MaxBaseHours; h++ {
		if p, ok := byName[tierRateName(h)]; ok {
			r.Tiers[h-1] = p
		}
	}
	if p, ok := byName[extraRateName]; ok {
		r.ExtraPerHour = p
	}
	return r
}

func (r Rates) Tier(base int) int64 {
	return r.Tiers[clampBase(base)-1]
}

// Price of an AFK selection. Extra hours only count on top of the top tier.
func (r Rates) Price(sel Selection) int64 {
	sel = sel.Normalize()
	p := r.Tier(sel.Base)
	if sel.Base == MaxBaseHours && sel.Extra > 0 {
		p += int64(sel.Extra) * r.ExtraPerHour
	}
	return p
}

// Savings compared to buying single hours. Zero when there is none.
func (r Rates) Savings(sel Selection) int64 {
	sel = sel.Normalize()
	s := r.Tiers[0]*int64(sel.Base) - r.Tier(sel.Base)
	if s < 0 {
		return 0
	}
	return s
}

// Hint is the short price reminder shown next to the duration picker.
func (r Rates) Hint() string {
	return fmt.Sprintf("1 Jam %s • 3 Jam %s • 5 Jam %s", shortRupiah(r.Tiers[0]), shortRupiah(r.Tiers[2]), shortRupiah(r.Tiers[4]))
}

// Selection is the duration picker state.
type Selection struct {
	Base  int `json:"base"`
	Extra int `json:"extra"`
}

func DefaultSelection() Selection {
	return Selection{Base: MinBaseHours}
}

// Normalize clamps base into [1,5] and drops extra hours unless base is 5.
func (s Selection) Normalize() Selection {
	s.Base = clampBase(s.Base)
	if s.Base < MaxBaseHours || s.Extra < 0 {
		s.Extra = 0
	}
	if s.Extra > MaxExtraHours {
		s.Extra = MaxExtraHours
	}
	return s
}

func (s Selection) IncBase() Selection { s.Base++; return s.Normalize() }
func (s Selection) DecBase() Selection { s.Base--; return s.Normalize() }

func (s Selection) IncExtra() Selection {
	s = s.Normalize()
	if s.Base == MaxBaseHours {
		s.Extra++
	}
	return s.Normalize()
}

func (s Selection) DecExtra() Selection { s.Extra--; return s.Normalize() }

func (s Selection) Hours() int { return s.Base + s.Extra }

func (s Selection) Label() string {
	s = s.Normalize()
	if s.Extra > 0 {
		return fmt.Sprintf("Joki AFK (%d Jam + %d Jam)", s.Base, s.Extra)
	}
	return fmt.Sprintf("Joki AFK (%d Jam)", s.Base)
}

func clampBase(b int) int {
	if b < MinBaseHours {
		return MinBaseHours
	}
	if b > MaxBaseHours {
		return MaxBaseHours
	}
	return b
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}
