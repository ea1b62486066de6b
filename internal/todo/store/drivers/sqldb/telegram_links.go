package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
)

type telegramLinksRepo struct{ q *Queries }

const linkColumns = `id, chat_id, user_id, verification_code, code_expires_at, created_at, updated_at`

func (r *telegramLinksRepo) CreateLink(ctx context.Context, l domain.TelegramLink) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO telegram_links (`+linkColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.ChatID, mapOptionalString(l.UserID), mapOptionalString(l.VerificationCode),
		mapOptionalTime(l.CodeExpiresAt), l.CreatedAt.UTC(), l.UpdatedAt.UTC(),
	)
	return r.q.mapInsert(err)
}

func (r *telegramLinksRepo) GetLinkByChatID(ctx context.Context, chatID int64) (domain.TelegramLink, error) {
	row := r.q.queryRow(ctx, `SELECT `+linkColumns+` FROM telegram_links WHERE chat_id = ?`, chatID)
	return scanLink(row)
}

func (r *telegramLinksRepo) GetLinkByUserID(ctx context.Context, userID string) (domain.TelegramLink, error) {
	row := r.q.queryRow(ctx,
		`SELECT `+linkColumns+` FROM telegram_links WHERE user_id = ? ORDER BY updated_at DESC, id DESC LIMIT 1`,
		userID,
	)
	return scanLink(row)
}

func (r *telegramLinksRepo) SetVerificationCode(ctx context.Context, chatID int64, code string, expiresAt, at time.Time) error {
	err := r.q.execAffected(ctx,
		`UPDATE telegram_links SET verification_code = ?, code_expires_at = ?, updated_at = ? WHERE chat_id = ?`,
		code, expiresAt.UTC(), at.UTC(), chatID,
	)
	return r.q.mapInsert(err)
}

func (r *telegramLinksRepo) GetLinkByCode(ctx context.Context, code string, now time.Time) (domain.TelegramLink, error) {
	row := r.q.queryRow(ctx,
		`SELECT `+linkColumns+` FROM telegram_links WHERE verification_code = ? AND code_expires_at > ?`,
		code, now.UTC(),
	)
	return scanLink(row)
}

func (r *telegramLinksRepo) AttachUser(ctx context.Context, linkID, code, userID string, at time.Time) error {
	return r.q.execAffected(ctx,
		`UPDATE telegram_links SET user_id = ?, verification_code = NULL, code_expires_at = NULL, updated_at = ?
		 WHERE id = ? AND verification_code = ?`,
		userID, at.UTC(), linkID, code,
	)
}

func (r *telegramLinksRepo) ClearExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.exec(ctx,
		`UPDATE telegram_links SET verification_code = NULL, code_expires_at = NULL
		 WHERE verification_code IS NOT NULL AND code_expires_at <= ?`,
		now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanLink(row rowScanner) (domain.TelegramLink, error) {
	var (
		l       domain.TelegramLink
		userID  sql.NullString
		code    sql.NullString
		expires sql.NullTime
	)
	err := row.Scan(&l.ID, &l.ChatID, &userID, &code, &expires, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return domain.TelegramLink{}, mapNotFound(err)
	}
	l.UserID = mapNullString(userID)
	l.VerificationCode = mapNullString(code)
	l.CodeExpiresAt = mapNullTime(expires)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return l, nil
}
