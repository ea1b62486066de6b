package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/store"
)

var errNoRowsAffected = store.ErrNotFound

// Migrator applies the embedded schema for a driver.
type Migrator func(db *sql.DB) error

// Store implements store.Store over database/sql. The sqlite and postgres
// driver packages construct it with their dialect and migrations.
type Store struct {
	db      *sql.DB
	dialect Dialect
	migrate Migrator
	q       *Queries
}

func New(db *sql.DB, d Dialect, m Migrator) *Store {
	return &Store{
		db:      db,
		dialect: d,
		migrate: m,
		q:       NewQueries(db, d),
	}
}

// DB exposes the pool, for drivers and tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ApplyMigrations() error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(s.db)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.dialect), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback after Commit is a harmless sql.ErrTxDone.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users                 { return &usersRepo{q: s.q} }
func (s *Store) Sessions() store.Sessions           { return &sessionsRepo{q: s.q} }
func (s *Store) TelegramLinks() store.TelegramLinks { return &telegramLinksRepo{q: s.q} }
func (s *Store) Boards() store.Boards               { return &boardsRepo{q: s.q} }
func (s *Store) Participants() store.Participants   { return &participantsRepo{q: s.q} }
func (s *Store) Categories() store.Categories       { return &categoriesRepo{q: s.q} }
func (s *Store) Goals() store.Goals                 { return &goalsRepo{q: s.q} }
func (s *Store) Comments() store.Comments           { return &commentsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func (q *Queries) mapInsert(err error) error {
	if err != nil && q.dialect.IsUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func mapNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time.UTC()
	return &v
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
