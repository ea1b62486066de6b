package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/store/drivers/sqldb"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type dialect struct{}

func (dialect) Name() string   { return "postgres" }
func (dialect) Numbered() bool { return true }

func (dialect) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// NewStore connects to the database at dsn, a postgres:// URL or a
// key=value connection string.
func NewStore(dsn string) (*sqldb.Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return sqldb.New(db, dialect{}, applyMigrations), nil
}
