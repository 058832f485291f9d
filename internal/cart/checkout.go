package cart

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrCopyFailed = errors.New("gagal menyalin text")
)

// Clipboard receives the finished order message.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

type ClipboardFunc func(ctx context.Context, text string) error

func (f ClipboardFunc) WriteText(ctx context.Context, text string) error { return f(ctx, text) }

const StateCopied = "copied"

type Receipt struct {
	State      string `json:"state"`
	Message    string `json:"message"`
	Total      int64  `json:"total"`
	TotalText  string `json:"total_formatted"`
	Lines      []Line `json:"lines"`
	ContactURL string `json:"contact_url"`
}

// Checkout serializes the cart and hands it to clip. The cart is not modified.
func Checkout(ctx context.Context, c *Cart, clip Clipboard, contactURL string) (Receipt, error) {
	if c.Len() == 0 {
		return Receipt{}, ErrEmptyCart
	}

	msg := c.Message()
	if err := clip.WriteText(ctx, msg); err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	total := c.Total()
	return Receipt{
		State:      StateCopied,
		Message:    msg,
		Total:      total,
		TotalText:  FormatRupiah(total),
		Lines:      c.Lines(),
		ContactURL: contactURL,
	}, nil
}
