package sqldb

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect covers the little that differs between the engines we run on.
type Dialect interface {
	Name() string

	// Numbered reports whether placeholders are $1, $2... instead of ?.
	Numbered() bool

	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation(err error) bool
}

// Queries binds repositories to a connection or transaction. Every query in
// this package is written with ? placeholders and rebound here.
type Queries struct {
	db      DBTX
	dialect Dialect
}

func NewQueries(db DBTX, d Dialect) *Queries {
	return &Queries{db: db, dialect: d}
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.rebind(query), args...)
}

func (q *Queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.rebind(query), args...)
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.rebind(query), args...)
}

// execAffected runs query and maps zero affected rows to ErrNotFound.
func (q *Queries) execAffected(ctx context.Context, query string, args ...any) error {
	res, err := q.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNoRowsAffected
	}
	return nil
}

func (q *Queries) rebind(query string) string {
	if !q.dialect.Numbered() {
		return query
	}
	return Rebind(query)
}

// Rebind rewrites ? placeholders as $1, $2, ...
func Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
