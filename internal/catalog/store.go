package catalog

import (
	"context"
	"errors"
)

// DefaultStatusID is the fixed key of the singleton admin status record.
const DefaultStatusID int64 = 1

var (
	ErrNotFound     = errors.New("record not found")
	ErrUnknownField = errors.New("unknown field")
)

// Field names an updatable item column.
type Field string

const (
	FieldPrice Field = "price"
	FieldStock Field = "stock"
)

func (f Field) valid() bool {
	return f == FieldPrice || f == FieldStock
}

type Store interface {
	Ping(ctx context.Context) error

	ListServices(ctx context.Context) ([]Item, error)
	ListGamepasses(ctx context.Context) ([]Item, error)
	GetStatus(ctx context.Context, id int64) (Status, bool, error)

	UpdateField(ctx context.Context, src Source, id int64, field Field, value string) error
	// SetOnline updates an existing status row and reports ErrNotFound when
	// the row is missing.
	SetOnline(ctx context.Context, id int64, online bool) error
}
