package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore reads and writes the catalog tables. The *sql.DB is expected
// to be opened with the pgx stdlib driver.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) ListServices(ctx context.Context) ([]Item, error) {
	return s.list(ctx, SourceService)
}

func (s *PostgresStore) ListGamepasses(ctx context.Context) ([]Item, error) {
	return s.list(ctx, SourceGamepass)
}

func (s *PostgresStore) list(ctx context.Context, src Source) ([]Item, error) {
	var out []Item

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, price, COALESCE(category, ''), COALESCE(stock, '')
			FROM `+src.Table()+`
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Item, 0, 16)
		for rows.Next() {
			it := Item{Source: src}
			if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Category, &it.Stock); err != nil {
				return err
			}
			out = append(out, it)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list %s: %w", src.Table(), err)
	}
	return out, nil
}

func (s *PostgresStore) GetStatus(ctx context.Context, id int64) (Status, bool, error) {
	var st Status

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, is_online
			FROM admin_status
			WHERE id = $1
		`, id).Scan(&st.ID, &st.IsOnline)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return Status{}, false, nil
	}
	if err != nil {
		return Status{}, false, err
	}
	return st, true, nil
}

func (s *PostgresStore) UpdateField(ctx context.Context, src Source, id int64, field Field, value string) error {
	if !field.valid() {
		return ErrUnknownField
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE `+src.Table()+`
			SET `+string(field)+` = $1
			WHERE id = $2
		`, value, id)
		if err != nil {
			return err
		}
		return expectOneRow(res)
	})
}

func (s *PostgresStore) SetOnline(ctx context.Context, id int64, online bool) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE admin_status
			SET is_online = $1
			WHERE id = $2
		`, online, id)
		if err != nil {
			return err
		}
		return expectOneRow(res)
	})
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
