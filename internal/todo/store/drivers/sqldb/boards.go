package sqldb

import (
	"context"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
)

type boardsRepo struct{ q *Queries }

const boardColumns = `b.id, b.title, b.is_deleted, b.created_at, b.updated_at`

var boardOrderColumns = map[string]string{
	"title":   "LOWER(b.title)",
	"created": "b.created_at",
}

func (r *boardsRepo) CreateBoard(ctx context.Context, b domain.Board) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO boards (id, title, is_deleted, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.IsDeleted, b.CreatedAt.UTC(), b.UpdatedAt.UTC(),
	)
	return r.q.mapInsert(err)
}

func (r *boardsRepo) GetBoardByID(ctx context.Context, id string) (domain.Board, error) {
	row := r.q.queryRow(ctx, `SELECT `+boardColumns+` FROM boards b WHERE b.id = ?`, id)
	return scanBoard(row)
}

func (r *boardsRepo) UpdateBoardTitle(ctx context.Context, id, title string, at time.Time) error {
	return r.q.execAffected(ctx,
		`UPDATE boards SET title = ?, updated_at = ? WHERE id = ?`,
		title, at.UTC(), id,
	)
}

func (r *boardsRepo) MarkBoardDeleted(ctx context.Context, id string, at time.Time) error {
	return r.q.execAffected(ctx,
		`UPDATE boards SET is_deleted = ?, updated_at = ? WHERE id = ?`,
		true, at.UTC(), id,
	)
}

func (r *boardsRepo) ListBoards(ctx context.Context, userID string, f store.BoardFilter) ([]domain.Board, int, error) {
	from := ` FROM boards b JOIN participants p ON p.board_id = b.id`

	w := &where{}
	w.add("p.user_id = ?", userID)
	w.add("b.is_deleted = ?", false)
	w.search(f.Search, "b.title")

	total, err := r.q.count(ctx, from, w)
	if err != nil {
		return nil, 0, err
	}

	page, pageArgs := window(f.Page)
	rows, err := r.q.query(ctx,
		`SELECT `+boardColumns+from+w.sql()+
			orderBy(f.Ordering, boardOrderColumns, "title", "b.id")+page,
		append(w.args, pageArgs...)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func scanBoard(row rowScanner) (domain.Board, error) {
	var b domain.Board
	if err := row.Scan(&b.ID, &b.Title, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return domain.Board{}, mapNotFound(err)
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, nil
}
