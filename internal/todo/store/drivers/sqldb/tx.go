package sqldb

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/todolist/internal/todo/store"
)

type txStore struct {
	tx *sql.Tx
	q  *Queries
}

func newTx(tx *sql.Tx, d Dialect) *txStore {
	return &txStore{
		tx: tx,
		q:  NewQueries(tx, d),
	}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op, the outer store owns the pool.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Users() store.Users                 { return &usersRepo{q: t.q} }
func (t *txStore) Sessions() store.Sessions           { return &sessionsRepo{q: t.q} }
func (t *txStore) TelegramLinks() store.TelegramLinks { return &telegramLinksRepo{q: t.q} }
func (t *txStore) Boards() store.Boards               { return &boardsRepo{q: t.q} }
func (t *txStore) Participants() store.Participants   { return &participantsRepo{q: t.q} }
func (t *txStore) Categories() store.Categories       { return &categoriesRepo{q: t.q} }
func (t *txStore) Goals() store.Goals                 { return &goalsRepo{q: t.q} }
func (t *txStore) Comments() store.Comments           { return &commentsRepo{q: t.q} }
