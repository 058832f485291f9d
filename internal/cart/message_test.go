package cart_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ForgeStore/internal/cart"
	"ForgeStore/internal/catalog"
)

func TestMessage_TwoItemScenario(t *testing.T) {
	c := cart.New()
	c.Adjust(boost, 1)
	c.Adjust(vip, 1)

	want := "Halo Admin, saya mau order via Website:\n\n" +
		"1. [Jasa] Boost Lv10 - Rp 10.000\n" +
		"2. [GP] VIP - Rp 50.000\n" +
		"\n💰 Total: *Rp 60.000*" +
		"\n\nMohon diproses ya min!"

	require.Equal(t, want, c.Message())
}

func TestMessage_QuantityPrefixAndTags(t *testing.T) {
	c := cart.New()
	c.Adjust(iron, 3)
	c.AddAfk(cart.Selection{Base: 5, Extra: 1}, cart.DefaultRates())
	c.Adjust(raid, 2)

	lines := c.Lines()
	require.Len(t, lines, 3)
	require.Equal(t, "1. [Item] 3x Iron Ore - Rp 15.000", lines[0].String())
	require.Equal(t, "2. [⏳ AFK] Joki AFK (5 Jam + 1 Jam) - Rp 90.000", lines[1].String())
	require.Equal(t, "3. [Jasa] 2x Joki RAID Castle - Rp 16.000", lines[2].String())
}

func TestMessage_TotalEqualsSumOfLines(t *testing.T) {
	carts := []*cart.Cart{cart.New(), cart.New(), cart.New()}

	carts[1].Adjust(boost, 1)

	carts[2].Adjust(iron, 4)
	carts[2].Adjust(vip, 1)
	carts[2].Adjust(boss, 3)
	carts[2].AddAfk(cart.Selection{Base: 2}, cart.DefaultRates())
	carts[2].Adjust(catalog.Item{ID: 9, Source: catalog.SourceGamepass, Name: "Junk", Price: "n/a"}, 1)

	for i, c := range carts {
		var sum int64
		for _, l := range c.Lines() {
			sum += cart.ParsePrice(l.Display)
		}
		require.Equal(t, c.Total(), sum, "cart %d", i)
		require.True(t, strings.Contains(c.Message(), "Total: *"+cart.FormatRupiah(sum)+"*"), "cart %d", i)
	}
}

type recordingClipboard struct {
	got string
	err error
}

func (r *recordingClipboard) WriteText(_ context.Context, text string) error {
	if r.err != nil {
		return r.err
	}
	r.got = text
	return nil
}

func TestCheckout(t *testing.T) {
	c := cart.New()
	c.Adjust(boost, 1)
	c.Adjust(vip, 1)

	clip := &recordingClipboard{}
	rc, err := cart.Checkout(context.Background(), c, clip, "https://www.tiktok.com/@shop")
	require.NoError(t, err)
	require.Equal(t, cart.StateCopied, rc.State)
	require.Equal(t, c.Message(), clip.got)
	require.Equal(t, int64(60000), rc.Total)
	require.Equal(t, "Rp 60.000", rc.TotalText)
	require.Equal(t, "https://www.tiktok.com/@shop", rc.ContactURL)
	require.Equal(t, 2, c.Len(), "checkout must not clear the cart")
}

func TestCheckout_Failures(t *testing.T) {
	_, err := cart.Checkout(context.Background(), cart.New(), &recordingClipboard{}, "")
	require.ErrorIs(t, err, cart.ErrEmptyCart)

	c := cart.New()
	c.Adjust(boost, 1)
	boom := errors.New("denied")
	_, err = cart.Checkout(context.Background(), c, &recordingClipboard{err: boom}, "")
	require.ErrorIs(t, err, cart.ErrCopyFailed)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, c.Len())
}
