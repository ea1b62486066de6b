package sqldb

import (
	"context"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
)

type sessionsRepo struct{ q *Queries }

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.TokenHash, s.ExpiresAt.UTC(), s.CreatedAt.UTC(),
	)
	return r.q.mapInsert(err)
}

func (r *sessionsRepo) GetActiveSession(ctx context.Context, tokenHash string, now time.Time) (domain.Session, error) {
	var s domain.Session
	err := r.q.queryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, created_at FROM sessions WHERE token_hash = ? AND expires_at > ?`,
		tokenHash, now.UTC(),
	).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, tokenHash string) error {
	return r.q.execAffected(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.exec(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
