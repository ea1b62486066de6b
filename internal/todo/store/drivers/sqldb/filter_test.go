package sqldb

import (
	"testing"

	"github.com/aussiebroadwan/todolist/internal/todo/store"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	t.Parallel()

	require.Equal(t, "SELECT 1", Rebind("SELECT 1"))
	require.Equal(t,
		"UPDATE x SET a = $1 WHERE id = $2 AND b IN ($3, $4)",
		Rebind("UPDATE x SET a = ? WHERE id = ? AND b IN (?, ?)"),
	)
}

func TestWhere(t *testing.T) {
	t.Parallel()

	t.Run("empty renders nothing", func(t *testing.T) {
		w := &where{}
		w.in("g.status", nil)
		w.search("   ", "g.title")
		require.Empty(t, w.sql())
		require.Empty(t, w.args)
	})

	t.Run("in expands placeholders", func(t *testing.T) {
		w := &where{}
		w.add("p.user_id = ?", "u1")
		w.in("g.status", []string{"to_do", "done"})
		require.Equal(t, " WHERE p.user_id = ? AND g.status IN (?, ?)", w.sql())
		require.Equal(t, []any{"u1", "to_do", "done"}, w.args)
	})

	t.Run("search ors columns and escapes wildcards", func(t *testing.T) {
		w := &where{}
		w.search("50%_Off", "g.title", "g.description")
		require.Equal(t,
			` WHERE (LOWER(g.title) LIKE ? ESCAPE '\' OR LOWER(g.description) LIKE ? ESCAPE '\')`,
			w.sql(),
		)
		require.Equal(t, []any{`%50\%\_off%`, `%50\%\_off%`}, w.args)
	})
}

func TestOrderBy(t *testing.T) {
	t.Parallel()

	cols := map[string]string{"title": "LOWER(b.title)", "created": "b.created_at"}

	require.Equal(t, " ORDER BY LOWER(b.title) ASC, b.id ASC",
		orderBy(store.Ordering{}, cols, "title", "b.id"))
	require.Equal(t, " ORDER BY b.created_at DESC, b.id DESC",
		orderBy(store.Ordering{Field: "created", Desc: true}, cols, "title", "b.id"))
	require.Equal(t, " ORDER BY LOWER(b.title) ASC, b.id ASC",
		orderBy(store.Ordering{Field: "nope"}, cols, "title", "b.id"))
}

func TestWindow(t *testing.T) {
	t.Parallel()

	clause, args := window(store.Page{})
	require.Empty(t, clause)
	require.Empty(t, args)

	clause, args = window(store.Page{Offset: 5})
	require.Empty(t, clause, "offset alone is ignored")
	require.Empty(t, args)

	// No clamping here, callers pass an already bounded page
	clause, args = window(store.Page{Limit: 1000, Offset: 20})
	require.Equal(t, " LIMIT ? OFFSET ?", clause)
	require.Equal(t, []any{1000, 20}, args)
}
