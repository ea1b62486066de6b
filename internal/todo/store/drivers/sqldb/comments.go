package sqldb

import (
	"context"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
)

type commentsRepo struct{ q *Queries }

const commentColumns = `m.id, m.goal_id, m.text, m.created_at, m.updated_at, ` + authorColumns

var commentOrderColumns = map[string]string{
	"created": "m.created_at",
	"updated": "m.updated_at",
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO comments (id, goal_id, user_id, text, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.GoalID, c.User.ID, c.Text, c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	return r.q.mapInsert(err)
}

func (r *commentsRepo) GetCommentByID(ctx context.Context, id string) (domain.Comment, error) {
	row := r.q.queryRow(ctx,
		`SELECT `+commentColumns+` FROM comments m JOIN users u ON u.id = m.user_id WHERE m.id = ?`,
		id,
	)
	return scanComment(row)
}

func (r *commentsRepo) UpdateCommentText(ctx context.Context, id, text string, at time.Time) error {
	return r.q.execAffected(ctx,
		`UPDATE comments SET text = ?, updated_at = ? WHERE id = ?`,
		text, at.UTC(), id,
	)
}

func (r *commentsRepo) DeleteComment(ctx context.Context, id string) error {
	return r.q.execAffected(ctx, `DELETE FROM comments WHERE id = ?`, id)
}

func (r *commentsRepo) ListComments(ctx context.Context, userID string, f store.CommentFilter) ([]domain.Comment, int, error) {
	from := ` FROM comments m
		JOIN goals g ON g.id = m.goal_id
		JOIN categories c ON c.id = g.category_id
		JOIN participants p ON p.board_id = c.board_id
		JOIN users u ON u.id = m.user_id`

	w := &where{}
	w.add("p.user_id = ?", userID)
	w.add("g.status <> ?", string(domain.StatusArchived))
	if f.GoalID != "" {
		w.add("m.goal_id = ?", f.GoalID)
	}

	total, err := r.q.count(ctx, from, w)
	if err != nil {
		return nil, 0, err
	}

	page, pageArgs := window(f.Page)
	rows, err := r.q.query(ctx,
		`SELECT `+commentColumns+from+w.sql()+
			orderBy(f.Ordering, commentOrderColumns, "created", "m.id")+page,
		append(w.args, pageArgs...)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func scanComment(row rowScanner) (domain.Comment, error) {
	var c domain.Comment
	author, done := authorDest(&c.User)
	dest := append([]any{&c.ID, &c.GoalID, &c.Text, &c.CreatedAt, &c.UpdatedAt}, author...)
	if err := row.Scan(dest...); err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	done()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}
