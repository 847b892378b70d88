// Package sqldb implements storage.Tx over database/sql. The SQLite and
// PostgreSQL backends share it and differ only in Dialect.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage"
)

// timestampLayout is fixed-width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps a connection pool with the unit-of-work entry points.
type DB struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *DB {
	return &DB{db: db, dialect: dialect}
}

// SQL returns the underlying pool.
func (d *DB) SQL() *sql.DB {
	return d.db
}

func (d *DB) Dialect() Dialect {
	return d.dialect
}

// WithTx runs fn inside a transaction and commits if fn succeeds.
func (d *DB) WithTx(ctx context.Context, fn func(storage.Tx) error) error {
	return d.run(ctx, nil, fn)
}

// View runs fn inside a transaction that is always rolled back. PostgreSQL
// gets a READ ONLY transaction; SQLite has no such mode.
func (d *DB) View(ctx context.Context, fn func(storage.Tx) error) error {
	opts := &sql.TxOptions{}
	if d.dialect == Postgres {
		opts.ReadOnly = true
	}
	return d.run(ctx, opts, func(t storage.Tx) error {
		if err := fn(t); err != nil {
			return err
		}
		return errReadOnly
	})
}

// errReadOnly makes run roll a View back; it never escapes run.
var errReadOnly = errors.New("read-only transaction")

func (d *DB) run(ctx context.Context, opts *sql.TxOptions, fn func(storage.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{ctx: ctx, tx: tx, dialect: d.dialect}); err != nil {
		if errors.Is(err, errReadOnly) {
			return nil
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Tx implements storage.Tx on one *sql.Tx. It is not safe for concurrent use.
type Tx struct {
	ctx     context.Context
	tx      *sql.Tx
	dialect Dialect
}

var _ storage.Tx = (*Tx)(nil)

func (t *Tx) exec(query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(t.ctx, t.dialect.Rebind(query), args...)
}

func (t *Tx) query(query string, args ...interface{}) (*sql.Rows, error) {
	return t.tx.QueryContext(t.ctx, t.dialect.Rebind(query), args...)
}

func (t *Tx) queryRow(query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRowContext(t.ctx, t.dialect.Rebind(query), args...)
}

// mustAffect turns a zero-row write into a NotFound error.
func mustAffect(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound("%s %s", what, id)
	}
	return nil
}

func notFoundOr(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("%s %s", what, id)
	}
	return fmt.Errorf("failed to get %s %s: %w", what, id, err)
}

func now() string {
	return time.Now().UTC().Format(timestampLayout)
}

func encodeJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(raw string, v interface{}) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timestampLayout), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", s.String, err)
	}
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
