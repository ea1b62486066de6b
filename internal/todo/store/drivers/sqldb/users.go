package sqldb

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
)

type usersRepo struct{ q *Queries }

const userColumns = `id, username, email, first_name, last_name, password_hash, created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, mapStringNull(u.Email), u.FirstName, u.LastName,
		u.PasswordHash, u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return r.q.mapInsert(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.q.queryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(username) = ?`,
		strings.ToLower(username),
	)
	return scanUser(row)
}

func (r *usersRepo) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	var n int
	err := r.q.queryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE LOWER(username) = ? AND id <> ?`,
		strings.ToLower(username), exceptID,
	).Scan(&n)
	return n > 0, err
}

func (r *usersRepo) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var n int
	err := r.q.queryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE LOWER(email) = ? AND id <> ?`,
		strings.ToLower(email), exceptID,
	).Scan(&n)
	return n > 0, err
}

func (r *usersRepo) UpdateProfile(ctx context.Context, u domain.User) error {
	err := r.q.execAffected(ctx,
		`UPDATE users SET username = ?, email = ?, first_name = ?, last_name = ?, updated_at = ? WHERE id = ?`,
		u.Username, mapStringNull(u.Email), u.FirstName, u.LastName, u.UpdatedAt.UTC(), u.ID,
	)
	return r.q.mapInsert(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string, at time.Time) error {
	return r.q.execAffected(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, at.UTC(), userID,
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u     domain.User
		email sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &email, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Email = email.String
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

// authorColumns selects the public user fields joined under alias u.
const authorColumns = `u.id, u.username, u.email, u.first_name, u.last_name`

// authorDest returns scan targets for authorColumns; call done after Scan.
func authorDest(a *domain.Author) ([]any, func()) {
	var email sql.NullString
	dest := []any{&a.ID, &a.Username, &email, &a.FirstName, &a.LastName}
	return dest, func() { a.Email = email.String }
}
