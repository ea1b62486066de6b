package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
)

type goalsRepo struct{ q *Queries }

const goalColumns = `g.id, g.category_id, g.title, g.description, g.due_date, g.status, g.priority, g.created_at, g.updated_at, ` + authorColumns

// Goals without a due date sort after those with one in both directions.
var goalOrderColumns = map[string]string{
	"title":    "LOWER(g.title)",
	"created":  "g.created_at",
	"due_date": "COALESCE(g.due_date, '9999-12-31')",
	"priority": "CASE g.priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 WHEN 'critical' THEN 4 ELSE 5 END",
}

func (r *goalsRepo) CreateGoal(ctx context.Context, g domain.Goal) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO goals (id, category_id, user_id, title, description, due_date, status, priority, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.CategoryID, g.User.ID, g.Title, g.Description, mapOptionalString(g.DueDate),
		string(g.Status), string(g.Priority), g.CreatedAt.UTC(), g.UpdatedAt.UTC(),
	)
	return r.q.mapInsert(err)
}

func (r *goalsRepo) GetGoalByID(ctx context.Context, id string) (domain.Goal, error) {
	row := r.q.queryRow(ctx,
		`SELECT `+goalColumns+` FROM goals g JOIN users u ON u.id = g.user_id WHERE g.id = ?`,
		id,
	)
	return scanGoal(row)
}

func (r *goalsRepo) UpdateGoal(ctx context.Context, g domain.Goal) error {
	return r.q.execAffected(ctx,
		`UPDATE goals SET category_id = ?, title = ?, description = ?, due_date = ?, status = ?, priority = ?, updated_at = ?
		 WHERE id = ?`,
		g.CategoryID, g.Title, g.Description, mapOptionalString(g.DueDate),
		string(g.Status), string(g.Priority), g.UpdatedAt.UTC(), g.ID,
	)
}

func (r *goalsRepo) ArchiveGoal(ctx context.Context, id string, at time.Time) error {
	return r.q.execAffected(ctx,
		`UPDATE goals SET status = ?, updated_at = ? WHERE id = ?`,
		string(domain.StatusArchived), at.UTC(), id,
	)
}

func (r *goalsRepo) ArchiveGoalsByCategory(ctx context.Context, categoryID string, at time.Time) error {
	_, err := r.q.exec(ctx,
		`UPDATE goals SET status = ?, updated_at = ? WHERE category_id = ? AND status <> ?`,
		string(domain.StatusArchived), at.UTC(), categoryID, string(domain.StatusArchived),
	)
	return err
}

func (r *goalsRepo) ArchiveGoalsByBoard(ctx context.Context, boardID string, at time.Time) error {
	_, err := r.q.exec(ctx,
		`UPDATE goals SET status = ?, updated_at = ?
		 WHERE status <> ? AND category_id IN (SELECT id FROM categories WHERE board_id = ?)`,
		string(domain.StatusArchived), at.UTC(), string(domain.StatusArchived), boardID,
	)
	return err
}

func (r *goalsRepo) ListGoals(ctx context.Context, userID string, f store.GoalFilter) ([]domain.Goal, int, error) {
	from := ` FROM goals g
		JOIN categories c ON c.id = g.category_id
		JOIN boards b ON b.id = c.board_id
		JOIN participants p ON p.board_id = c.board_id
		JOIN users u ON u.id = g.user_id`

	w := &where{}
	w.add("p.user_id = ?", userID)
	w.add("b.is_deleted = ?", false)
	w.add("c.is_deleted = ?", false)
	w.add("g.status <> ?", string(domain.StatusArchived))
	w.in("g.category_id", f.CategoryIDs)
	w.in("g.status", f.Statuses)
	w.in("g.priority", f.Priorities)
	if f.DueDateGTE != "" {
		w.add("g.due_date >= ?", f.DueDateGTE)
	}
	if f.DueDateLTE != "" {
		w.add("g.due_date <= ?", f.DueDateLTE)
	}
	w.search(f.Search, "g.title", "g.description")

	total, err := r.q.count(ctx, from, w)
	if err != nil {
		return nil, 0, err
	}

	page, pageArgs := window(f.Page)
	rows, err := r.q.query(ctx,
		`SELECT `+goalColumns+from+w.sql()+
			orderBy(f.Ordering, goalOrderColumns, "title", "g.id")+page,
		append(w.args, pageArgs...)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	return out, total, rows.Err()
}

func scanGoal(row rowScanner) (domain.Goal, error) {
	var (
		g                domain.Goal
		due              sql.NullString
		status, priority string
	)
	author, done := authorDest(&g.User)
	dest := append([]any{&g.ID, &g.CategoryID, &g.Title, &g.Description, &due,
		&status, &priority, &g.CreatedAt, &g.UpdatedAt}, author...)
	if err := row.Scan(dest...); err != nil {
		return domain.Goal{}, mapNotFound(err)
	}
	done()
	g.DueDate = mapNullString(due)
	g.Status = domain.GoalStatus(status)
	g.Priority = domain.Priority(priority)
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return g, nil
}
