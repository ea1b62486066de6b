package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/stretchr/testify/require"
)

func TestBoardDeleteArchivesGoals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	b := f.board(t, owner, "test_board")
	require.Len(t, b.Participants, 1)
	require.Equal(t, domain.RoleOwner, b.Participants[0].Role)
	require.Equal(t, owner.ID, b.Participants[0].UserID)

	c := f.category(t, owner, b, "Test_Category")
	g := f.goal(t, owner, c, "Test_Goal")

	require.NoError(t, f.boards.Delete(ctx, owner.ID, b.ID))

	got, err := f.goals.Get(ctx, owner.ID, g.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusArchived, got.Status)

	page, err := f.goals.List(ctx, owner.ID, GoalQuery{}, ListOptions{})
	require.NoError(t, err)
	require.Zero(t, page.Count)
	require.Empty(t, page.Results)

	_, err = f.boards.Get(ctx, owner.ID, b.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.categories.Get(ctx, owner.ID, c.ID)
	require.ErrorIs(t, err, ErrNotFound)

	cat, err := f.store.Categories().GetCategoryByID(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, cat.IsDeleted)
}

func TestDeletedResourcesStayForbiddenToOutsiders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	reader := f.user(t, "reader")
	outsider := f.user(t, "outsider")
	b := f.board(t, owner, "b1")
	f.share(t, b, reader, domain.RoleReader)
	c := f.category(t, owner, b, "c1")
	require.NoError(t, f.boards.Delete(ctx, owner.ID, b.ID))

	_, err := f.boards.Get(ctx, outsider.ID, b.ID)
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, f.boards.Delete(ctx, outsider.ID, b.ID), ErrForbidden)
	_, err = f.categories.Get(ctx, outsider.ID, c.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// Participants learn the board is gone, whatever their role
	_, err = f.boards.Get(ctx, reader.ID, b.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, f.boards.Delete(ctx, reader.ID, b.ID), ErrNotFound)
	_, err = f.categories.Update(ctx, reader.ID, c.ID, CategoryInput{Title: ptr("x")}, true)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.boards.Get(ctx, owner.ID, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNonParticipantIsForbidden(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	x := f.user(t, "x")
	y := f.user(t, "y")
	b := f.board(t, x, "b1")
	c := f.category(t, x, b, "c1")
	g := f.goal(t, x, c, "g1")
	comment, err := f.comments.Create(ctx, x.ID, CommentInput{Goal: &g.ID, Text: ptr("hi")})
	require.NoError(t, err)

	_, err = f.boards.Get(ctx, y.ID, b.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.categories.Get(ctx, y.ID, c.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.goals.Get(ctx, y.ID, g.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.comments.Get(ctx, y.ID, comment.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.goals.Create(ctx, y.ID, GoalInput{Category: &c.ID, Title: ptr("sneaky")})
	require.ErrorIs(t, err, ErrForbidden)

	page, err := f.boards.List(ctx, y.ID, ListOptions{})
	require.NoError(t, err)
	require.Zero(t, page.Count)
}

func TestReaderCannotMutate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	reader := f.user(t, "reader")
	b := f.board(t, owner, "Shared")
	f.share(t, b, reader, domain.RoleReader)
	c := f.category(t, owner, b, "Cat")
	g := f.goal(t, owner, c, "Goal")

	_, err := f.boards.Update(ctx, reader.ID, b.ID, BoardInput{Title: ptr("mine")}, true)
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, f.boards.Delete(ctx, reader.ID, b.ID), ErrForbidden)

	_, err = f.categories.Update(ctx, reader.ID, c.ID, CategoryInput{Title: ptr("mine")}, true)
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, f.categories.Delete(ctx, reader.ID, c.ID), ErrForbidden)

	_, err = f.goals.Update(ctx, reader.ID, g.ID, GoalInput{Title: ptr("mine")}, true)
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, f.goals.Delete(ctx, reader.ID, g.ID), ErrForbidden)

	_, err = f.categories.Create(ctx, reader.ID, CategoryInput{Board: &b.ID, Title: ptr("new")})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.comments.Create(ctx, reader.ID, CommentInput{Goal: &g.ID, Text: ptr("hello")})
	require.ErrorIs(t, err, ErrForbidden)

	t.Run("reads still work", func(t *testing.T) {
		_, err := f.boards.Get(ctx, reader.ID, b.ID)
		require.NoError(t, err)

		page, err := f.goals.List(ctx, reader.ID, GoalQuery{}, ListOptions{})
		require.NoError(t, err)
		require.Equal(t, 1, page.Count)
	})
}

func TestWriterRights(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	writer := f.user(t, "writer")
	b := f.board(t, owner, "Team")
	f.share(t, b, writer, domain.RoleWriter)

	c := f.category(t, writer, b, "Writer cat")
	require.Equal(t, "writer", c.User.Username)

	g := f.goal(t, writer, c, "Writer goal")
	updated, err := f.goals.Update(ctx, writer.ID, g.ID, GoalInput{Status: ptr(domain.StatusInProgress)}, true)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, updated.Status)

	_, err = f.boards.Update(ctx, writer.ID, b.ID, BoardInput{Title: ptr("x")}, true)
	require.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.categories.Delete(ctx, writer.ID, c.ID))
	got, err := f.goals.Get(ctx, owner.ID, g.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusArchived, got.Status)
}

func TestGoalValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	other := f.user(t, "other")
	b := f.board(t, owner, "Board")
	c := f.category(t, owner, b, "Cat")

	t.Run("due date in the past", func(t *testing.T) {
		_, err := f.goals.Create(ctx, owner.ID, GoalInput{Category: &c.ID, Title: ptr("late"), DueDate: ptr("2026-02-28")})
		requireField(t, err, "due_date")
	})

	t.Run("due date today or absent", func(t *testing.T) {
		g, err := f.goals.Create(ctx, owner.ID, GoalInput{Category: &c.ID, Title: ptr("today"), DueDate: ptr("2026-03-01")})
		require.NoError(t, err)
		require.Equal(t, "2026-03-01", *g.DueDate)
		require.Equal(t, domain.StatusToDo, g.Status)
		require.Equal(t, domain.PriorityMedium, g.Priority)

		g = f.goal(t, owner, c, "whenever")
		require.Nil(t, g.DueDate)
	})

	t.Run("malformed due date", func(t *testing.T) {
		_, err := f.goals.Create(ctx, owner.ID, GoalInput{Category: &c.ID, Title: ptr("x"), DueDate: ptr("01/03/2026")})
		requireField(t, err, "due_date")
	})

	t.Run("archived status is not settable", func(t *testing.T) {
		_, err := f.goals.Create(ctx, owner.ID, GoalInput{Category: &c.ID, Title: ptr("x"), Status: ptr(domain.StatusArchived)})
		requireField(t, err, "status")
	})

	t.Run("unknown priority", func(t *testing.T) {
		_, err := f.goals.Create(ctx, owner.ID, GoalInput{Category: &c.ID, Title: ptr("x"), Priority: ptr(domain.Priority("urgent"))})
		requireField(t, err, "priority")
	})

	t.Run("missing title and category", func(t *testing.T) {
		_, err := f.goals.Create(ctx, owner.ID, GoalInput{})
		requireField(t, err, "title")
		requireField(t, err, "category")
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.goals.Create(ctx, owner.ID, GoalInput{Category: ptr("nope"), Title: ptr("x")})
		requireField(t, err, "category")
	})

	t.Run("user must be the actor", func(t *testing.T) {
		_, err := f.goals.Create(ctx, owner.ID, GoalInput{User: &other.ID, Category: &c.ID, Title: ptr("x")})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("deleted category rejects even the owner", func(t *testing.T) {
		gone := f.category(t, owner, b, "Gone")
		require.NoError(t, f.categories.Delete(ctx, owner.ID, gone.ID))

		_, err := f.goals.Create(ctx, owner.ID, GoalInput{Category: &gone.ID, Title: ptr("x")})
		requireField(t, err, "category")

		// state is checked before membership
		_, err = f.goals.Create(ctx, other.ID, GoalInput{Category: &gone.ID, Title: ptr("x")})
		requireField(t, err, "category")
	})

	t.Run("put requires title and category", func(t *testing.T) {
		g := f.goal(t, owner, c, "full")
		_, err := f.goals.Update(ctx, owner.ID, g.ID, GoalInput{Description: ptr("d")}, false)
		requireField(t, err, "title")
		requireField(t, err, "category")
	})

	t.Run("patch clears the due date", func(t *testing.T) {
		g, err := f.goals.Create(ctx, owner.ID, GoalInput{Category: &c.ID, Title: ptr("dated"), DueDate: ptr("2026-06-01")})
		require.NoError(t, err)

		g, err = f.goals.Update(ctx, owner.ID, g.ID, GoalInput{DueDate: ptr("")}, true)
		require.NoError(t, err)
		require.Nil(t, g.DueDate)
	})
}

func TestGoalMoveAndArchive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	b := f.board(t, owner, "Board")
	from := f.category(t, owner, b, "From")
	to := f.category(t, owner, b, "To")
	g := f.goal(t, owner, from, "Mover")

	moved, err := f.goals.Update(ctx, owner.ID, g.ID, GoalInput{Category: &to.ID}, true)
	require.NoError(t, err)
	require.Equal(t, to.ID, moved.CategoryID)

	t.Run("cannot move to a board without write access", func(t *testing.T) {
		stranger := f.user(t, "stranger")
		theirs := f.board(t, stranger, "Theirs")
		tc := f.category(t, stranger, theirs, "TC")

		_, err := f.goals.Update(ctx, owner.ID, g.ID, GoalInput{Category: &tc.ID}, true)
		require.ErrorIs(t, err, ErrForbidden)
	})

	require.NoError(t, f.goals.Delete(ctx, owner.ID, g.ID))
	require.NoError(t, f.goals.Delete(ctx, owner.ID, g.ID), "archiving twice is a no-op")

	_, err = f.goals.Update(ctx, owner.ID, g.ID, GoalInput{Title: ptr("again")}, true)
	requireField(t, err, NonFieldErrors)

	got, err := f.goals.Get(ctx, owner.ID, g.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusArchived, got.Status)
	require.Equal(t, "Mover", got.Title)
}

func TestCommentsOnArchivedGoal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	writer := f.user(t, "writer")
	b := f.board(t, owner, "Board")
	f.share(t, b, writer, domain.RoleWriter)
	c := f.category(t, owner, b, "Cat")
	g := f.goal(t, owner, c, "Goal")

	mine, err := f.comments.Create(ctx, writer.ID, CommentInput{Goal: &g.ID, Text: ptr("first")})
	require.NoError(t, err)
	require.Equal(t, "writer", mine.User.Username)

	t.Run("only the author edits", func(t *testing.T) {
		_, err := f.comments.Update(ctx, owner.ID, mine.ID, CommentInput{Text: ptr("owned")}, true)
		require.ErrorIs(t, err, ErrForbidden)
		require.ErrorIs(t, f.comments.Delete(ctx, owner.ID, mine.ID), ErrForbidden)

		edited, err := f.comments.Update(ctx, writer.ID, mine.ID, CommentInput{Text: ptr("edited")}, true)
		require.NoError(t, err)
		require.Equal(t, "edited", edited.Text)
	})

	t.Run("user must be the actor", func(t *testing.T) {
		_, err := f.comments.Create(ctx, writer.ID, CommentInput{User: &owner.ID, Goal: &g.ID, Text: ptr("x")})
		require.ErrorIs(t, err, ErrForbidden)
	})

	require.NoError(t, f.goals.Delete(ctx, owner.ID, g.ID))

	for _, actor := range []string{owner.ID, writer.ID} {
		_, err := f.comments.Create(ctx, actor, CommentInput{Goal: &g.ID, Text: ptr("late")})
		requireField(t, err, "goal")
	}

	_, err = f.comments.Update(ctx, writer.ID, mine.ID, CommentInput{Text: ptr("nope")}, true)
	requireField(t, err, "goal")
	requireField(t, f.comments.Delete(ctx, writer.ID, mine.ID), "goal")

	got, err := f.comments.Get(ctx, owner.ID, mine.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", got.Text)

	page, err := f.comments.List(ctx, owner.ID, g.ID, ListOptions{})
	require.NoError(t, err)
	require.Zero(t, page.Count)
}

func TestCommentOrdering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	b := f.board(t, owner, "Board")
	c := f.category(t, owner, b, "Cat")
	g := f.goal(t, owner, c, "Goal")

	first, err := f.comments.Create(ctx, owner.ID, CommentInput{Goal: &g.ID, Text: ptr("one")})
	require.NoError(t, err)
	second, err := f.comments.Create(ctx, owner.ID, CommentInput{Goal: &g.ID, Text: ptr("two")})
	require.NoError(t, err)

	// Same clock for both, so the id breaks the tie.
	page, err := f.comments.List(ctx, owner.ID, g.ID, ListOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, page.Count)
	require.Equal(t, second.ID, page.Results[0].ID)
	require.Equal(t, first.ID, page.Results[1].ID)

	page, err = f.comments.List(ctx, owner.ID, g.ID, ListOptions{Ordering: "created"})
	require.NoError(t, err)
	require.Equal(t, first.ID, page.Results[0].ID)

	_, err = f.comments.List(ctx, owner.ID, g.ID, ListOptions{Ordering: "text"})
	requireField(t, err, "ordering")
}

func TestBoardParticipants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	b := f.board(t, owner, "Board")

	updated, err := f.boards.Update(ctx, owner.ID, b.ID, BoardInput{
		Title: ptr("Renamed"),
		Participants: &[]ParticipantInput{
			{Username: "alice", Role: domain.RoleWriter},
			{Username: "BOB", Role: domain.RoleReader},
		},
	}, false)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Len(t, updated.Participants, 3)
	require.Equal(t, domain.RoleOwner, updated.Participants[0].Role)

	p, err := f.store.Participants().GetParticipant(ctx, b.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleReader, p.Role)

	t.Run("replacement drops missing members", func(t *testing.T) {
		updated, err := f.boards.Update(ctx, owner.ID, b.ID, BoardInput{
			Participants: &[]ParticipantInput{{Username: "bob", Role: domain.RoleWriter}},
		}, true)
		require.NoError(t, err)
		require.Len(t, updated.Participants, 2)

		_, err = f.boards.Get(ctx, alice.ID, b.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	tests := []struct {
		name string
		in   []ParticipantInput
	}{
		{"owner role", []ParticipantInput{{Username: "alice", Role: domain.RoleOwner}}},
		{"unknown user", []ParticipantInput{{Username: "nobody", Role: domain.RoleReader}}},
		{"owner listed", []ParticipantInput{{Username: "owner", Role: domain.RoleReader}}},
		{"duplicate", []ParticipantInput{{Username: "alice", Role: domain.RoleReader}, {Username: "alice", Role: domain.RoleWriter}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.boards.Update(ctx, owner.ID, b.ID, BoardInput{Participants: &tt.in}, true)
			requireField(t, err, "participants")
		})
	}
}

func TestCategoryRules(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	b := f.board(t, owner, "Board")
	other := f.board(t, owner, "Other")
	c := f.category(t, owner, b, "Cat")

	_, err := f.categories.Update(ctx, owner.ID, c.ID, CategoryInput{Board: &other.ID}, true)
	requireField(t, err, "board")

	_, err = f.categories.Update(ctx, owner.ID, c.ID, CategoryInput{}, false)
	requireField(t, err, "title")

	_, err = f.categories.Create(ctx, owner.ID, CategoryInput{Board: &b.ID, Title: ptr("  ")})
	requireField(t, err, "title")

	require.NoError(t, f.boards.Delete(ctx, owner.ID, other.ID))
	_, err = f.categories.Create(ctx, owner.ID, CategoryInput{Board: &other.ID, Title: ptr("late")})
	requireField(t, err, "board")

	t.Run("listing filters by board and title", func(t *testing.T) {
		f.category(t, owner, b, "Groceries")

		page, err := f.categories.List(ctx, owner.ID, b.ID, ListOptions{Search: "groc"})
		require.NoError(t, err)
		require.Equal(t, 1, page.Count)
		require.Equal(t, "Groceries", page.Results[0].Title)

		page, err = f.categories.List(ctx, owner.ID, b.ID, ListOptions{Ordering: "-title"})
		require.NoError(t, err)
		require.Equal(t, 2, page.Count)
		require.Equal(t, "Groceries", page.Results[0].Title)

		_, err = f.categories.List(ctx, owner.ID, "", ListOptions{Limit: -1})
		requireField(t, err, "limit")
	})
}

func TestGoalListFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := f.user(t, "owner")
	b := f.board(t, owner, "Board")
	c := f.category(t, owner, b, "Cat")

	_, err := f.goals.Create(ctx, owner.ID, GoalInput{Category: &c.ID, Title: ptr("high"), Priority: ptr(domain.PriorityHigh), DueDate: ptr("2026-04-01")})
	require.NoError(t, err)
	_, err = f.goals.Create(ctx, owner.ID, GoalInput{Category: &c.ID, Title: ptr("low"), Priority: ptr(domain.PriorityLow)})
	require.NoError(t, err)

	page, err := f.goals.List(ctx, owner.ID, GoalQuery{Priorities: []domain.Priority{domain.PriorityHigh}}, ListOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	require.Equal(t, "high", page.Results[0].Title)

	page, err = f.goals.List(ctx, owner.ID, GoalQuery{DueDateGTE: "2026-03-15"}, ListOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)

	page, err = f.goals.List(ctx, owner.ID, GoalQuery{}, ListOptions{Ordering: "-priority"})
	require.NoError(t, err)
	require.Equal(t, "high", page.Results[0].Title)

	_, err = f.goals.List(ctx, owner.ID, GoalQuery{Statuses: []domain.GoalStatus{"lost"}, DueDateLTE: "soon"}, ListOptions{})
	requireField(t, err, "status")
	requireField(t, err, "due_date__lte")
}
