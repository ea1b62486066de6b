package sqldb

import (
	"context"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
)

type categoriesRepo struct{ q *Queries }

const categoryColumns = `c.id, c.board_id, c.title, c.is_deleted, c.created_at, c.updated_at, ` + authorColumns

var categoryOrderColumns = map[string]string{
	"title":   "LOWER(c.title)",
	"created": "c.created_at",
}

func (r *categoriesRepo) CreateCategory(ctx context.Context, c domain.Category) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO categories (id, board_id, user_id, title, is_deleted, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.BoardID, c.User.ID, c.Title, c.IsDeleted, c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	return r.q.mapInsert(err)
}

func (r *categoriesRepo) GetCategoryByID(ctx context.Context, id string) (domain.Category, error) {
	row := r.q.queryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories c JOIN users u ON u.id = c.user_id WHERE c.id = ?`,
		id,
	)
	return scanCategory(row)
}

func (r *categoriesRepo) UpdateCategoryTitle(ctx context.Context, id, title string, at time.Time) error {
	return r.q.execAffected(ctx,
		`UPDATE categories SET title = ?, updated_at = ? WHERE id = ?`,
		title, at.UTC(), id,
	)
}

func (r *categoriesRepo) MarkCategoryDeleted(ctx context.Context, id string, at time.Time) error {
	return r.q.execAffected(ctx,
		`UPDATE categories SET is_deleted = ?, updated_at = ? WHERE id = ?`,
		true, at.UTC(), id,
	)
}

func (r *categoriesRepo) MarkCategoriesDeletedByBoard(ctx context.Context, boardID string, at time.Time) error {
	_, err := r.q.exec(ctx,
		`UPDATE categories SET is_deleted = ?, updated_at = ? WHERE board_id = ? AND is_deleted = ?`,
		true, at.UTC(), boardID, false,
	)
	return err
}

func (r *categoriesRepo) ListCategories(ctx context.Context, userID string, f store.CategoryFilter) ([]domain.Category, int, error) {
	from := ` FROM categories c
		JOIN boards b ON b.id = c.board_id
		JOIN participants p ON p.board_id = c.board_id
		JOIN users u ON u.id = c.user_id`

	w := &where{}
	w.add("p.user_id = ?", userID)
	w.add("b.is_deleted = ?", false)
	w.add("c.is_deleted = ?", false)
	if f.BoardID != "" {
		w.add("c.board_id = ?", f.BoardID)
	}
	w.search(f.Search, "c.title")

	total, err := r.q.count(ctx, from, w)
	if err != nil {
		return nil, 0, err
	}

	page, pageArgs := window(f.Page)
	rows, err := r.q.query(ctx,
		`SELECT `+categoryColumns+from+w.sql()+
			orderBy(f.Ordering, categoryOrderColumns, "title", "c.id")+page,
		append(w.args, pageArgs...)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var c domain.Category
	author, done := authorDest(&c.User)
	dest := append([]any{&c.ID, &c.BoardID, &c.Title, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt}, author...)
	if err := row.Scan(dest...); err != nil {
		return domain.Category{}, mapNotFound(err)
	}
	done()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}
