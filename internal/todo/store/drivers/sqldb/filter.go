package sqldb

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/todolist/internal/todo/store"
)

// where accumulates AND-ed predicates with their arguments.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// in adds col IN (...). An empty list adds nothing.
func (w *where) in(col string, values []string) {
	if len(values) == 0 {
		return
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	w.add(col+" IN ("+marks+")", args...)
}

// search adds a case-insensitive substring match over any of cols.
func (w *where) search(term string, cols ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	ors := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		ors[i] = "LOWER(" + c + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	w.add("("+strings.Join(ors, " OR ")+")", args...)
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderBy renders ORDER BY for o using the expression registered for its
// field, falling back to fallback. The primary key breaks ties.
func orderBy(o store.Ordering, columns map[string]string, fallback, pk string) string {
	expr, ok := columns[o.Field]
	if !ok {
		expr = columns[fallback]
	}
	dir := " ASC"
	if o.Desc {
		dir = " DESC"
	}
	return " ORDER BY " + expr + dir + ", " + pk + dir
}

// window renders LIMIT/OFFSET for p. A zero Limit selects every row. Page
// sizes and bounds are settled by the service layer before they get here.
func window(p store.Page) (string, []any) {
	if p.Limit <= 0 {
		return "", nil
	}
	return " LIMIT ? OFFSET ?", []any{p.Limit, p.Offset}
}

// count runs SELECT COUNT(*) over from + w.
func (q *Queries) count(ctx context.Context, from string, w *where) (int, error) {
	var n int
	err := q.queryRow(ctx, "SELECT COUNT(*)"+from+w.sql(), w.args...).Scan(&n)
	return n, err
}
