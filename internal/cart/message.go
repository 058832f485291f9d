package cart

import (
	"fmt"
	"strings"

	"ForgeStore/internal/catalog"
)

const (
	messageHeader  = "Halo Admin, saya mau order via Website:"
	messageClosing = "Mohon diproses ya min!"
)

var tags = map[catalog.Kind]string{
	catalog.KindJoki:     "[Jasa]",
	catalog.KindGamepass: "[GP]",
	catalog.KindAfk:      "[⏳ AFK]",
	catalog.KindOre:      "[Item]",
}

func TagFor(kind catalog.Kind) string {
	if t, ok := tags[kind]; ok {
		return t
	}
	return tags[catalog.KindJoki]
}

// Line is one rendered row of the order message.
type Line struct {
	No       int    `json:"no"`
	Tag      string `json:"tag"`
	Name     string `json:"name"`
	Qty      int    `json:"qty"`
	Subtotal int64  `json:"subtotal"`
	Display  string `json:"subtotal_formatted"`
}

func (l Line) String() string {
	qty := ""
	if l.Qty > 1 {
		qty = fmt.Sprintf("%dx ", l.Qty)
	}
	return fmt.Sprintf("%d. %s %s%s - %s", l.No, l.Tag, qty, l.Name, l.Display)
}

func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for i, e := range c.Entries() {
		sub := e.Subtotal()
		out = append(out, Line{
			No:       i + 1,
			Tag:      TagFor(e.Kind),
			Name:     catalog.DisplayName(e.Item.Name),
			Qty:      e.Qty,
			Subtotal: sub,
			Display:  FormatRupiah(sub),
		})
	}
	return out
}

// Message is the order text the customer pastes to the admin.
func (c *Cart) Message() string {
	var b strings.Builder
	b.WriteString(messageHeader)
	b.WriteString("\n\n")
	for _, l := range c.Lines() {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\n💰 Total: *%s*", FormatRupiah(c.Total()))
	b.WriteString("\n\n")
	b.WriteString(messageClosing)
	return b.String()
}
