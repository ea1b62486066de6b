package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
	"github.com/aussiebroadwan/todolist/internal/todo/store/drivers/sqlite"
	"github.com/aussiebroadwan/todolist/pkg/idx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, username string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New(),
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    username,
		PasswordHash: "argon2id$dummy",
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedBoard(t *testing.T, s store.Store, title string, owner domain.User, at time.Time) domain.Board {
	t.Helper()
	ctx := context.Background()

	b := domain.Board{ID: idx.New(), Title: title, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, s.Boards().CreateBoard(ctx, b))
	require.NoError(t, s.Participants().CreateParticipant(ctx, domain.Participant{
		ID: idx.New(), BoardID: b.ID, UserID: owner.ID, Role: domain.RoleOwner, CreatedAt: at, UpdatedAt: at,
	}))
	return b
}

func seedCategory(t *testing.T, s store.Store, b domain.Board, by domain.User, title string) domain.Category {
	t.Helper()

	c := domain.Category{ID: idx.New(), BoardID: b.ID, User: by.Author(), Title: title, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.Categories().CreateCategory(context.Background(), c))
	return c
}

func seedGoal(t *testing.T, s store.Store, c domain.Category, by domain.User, g domain.Goal) domain.Goal {
	t.Helper()

	g.ID = idx.New()
	g.CategoryID = c.ID
	g.User = by.Author()
	if g.Status == "" {
		g.Status = domain.StatusToDo
	}
	if g.Priority == "" {
		g.Priority = domain.PriorityMedium
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = t0
	}
	g.UpdatedAt = g.CreatedAt
	require.NoError(t, s.Goals().CreateGoal(context.Background(), g))
	return g
}

func ptr[T any](v T) *T { return &v }

func TestUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	alice := seedUser(t, s, "Alice")

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		got, err := s.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)
		require.Equal(t, "Alice", got.Username)
		require.Equal(t, "Alice@example.com", got.Email)
		require.True(t, got.CreatedAt.Equal(t0))
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, domain.User{
			ID: idx.New(), Username: "ALICE", PasswordHash: "x", CreatedAt: t0, UpdatedAt: t0,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("empty emails do not collide", func(t *testing.T) {
		for _, name := range []string{"noemail1", "noemail2"} {
			require.NoError(t, s.Users().CreateUser(ctx, domain.User{
				ID: idx.New(), Username: name, PasswordHash: "x", CreatedAt: t0, UpdatedAt: t0,
			}))
		}
		taken, err := s.Users().EmailTaken(ctx, "", "")
		require.NoError(t, err)
		require.False(t, taken)
	})

	t.Run("taken checks skip the caller", func(t *testing.T) {
		taken, err := s.Users().UsernameTaken(ctx, "alice", alice.ID)
		require.NoError(t, err)
		require.False(t, taken)

		taken, err = s.Users().UsernameTaken(ctx, "alice", "")
		require.NoError(t, err)
		require.True(t, taken)

		taken, err = s.Users().EmailTaken(ctx, "ALICE@example.com", "")
		require.NoError(t, err)
		require.True(t, taken)
	})

	t.Run("profile and password updates", func(t *testing.T) {
		u := alice
		u.FirstName = "Al"
		u.Email = ""
		u.UpdatedAt = t0.Add(time.Hour)
		require.NoError(t, s.Users().UpdateProfile(ctx, u))
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "argon2id$new", t0.Add(2*time.Hour)))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "Al", got.FirstName)
		require.Empty(t, got.Email)
		require.Equal(t, "argon2id$new", got.PasswordHash)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, idx.New())
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, idx.New(), "x", t0), store.ErrNotFound)
	})
}

func TestSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "bob")

	live := domain.Session{ID: idx.New(), UserID: u.ID, TokenHash: "live", ExpiresAt: t0.Add(time.Hour), CreatedAt: t0}
	dead := domain.Session{ID: idx.New(), UserID: u.ID, TokenHash: "dead", ExpiresAt: t0.Add(-time.Minute), CreatedAt: t0}
	require.NoError(t, s.Sessions().CreateSession(ctx, live))
	require.NoError(t, s.Sessions().CreateSession(ctx, dead))

	got, err := s.Sessions().GetActiveSession(ctx, "live", t0)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)

	_, err = s.Sessions().GetActiveSession(ctx, "dead", t0)
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err := s.Sessions().DeleteExpiredSessions(ctx, t0)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, s.Sessions().DeleteSession(ctx, "live"))
	require.ErrorIs(t, s.Sessions().DeleteSession(ctx, "live"), store.ErrNotFound)
}

func TestTelegramLinks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "carol")

	link := domain.TelegramLink{ID: idx.New(), ChatID: 4242, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.TelegramLinks().CreateLink(ctx, link))
	require.ErrorIs(t, s.TelegramLinks().CreateLink(ctx, domain.TelegramLink{
		ID: idx.New(), ChatID: 4242, CreatedAt: t0, UpdatedAt: t0,
	}), store.ErrAlreadyExists)

	require.NoError(t, s.TelegramLinks().SetVerificationCode(ctx, 4242, "code-1", t0.Add(time.Hour), t0))

	t.Run("expired codes are invisible", func(t *testing.T) {
		_, err := s.TelegramLinks().GetLinkByCode(ctx, "code-1", t0.Add(2*time.Hour))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	got, err := s.TelegramLinks().GetLinkByCode(ctx, "code-1", t0)
	require.NoError(t, err)
	require.Equal(t, link.ID, got.ID)
	require.False(t, got.Verified())
	require.NotNil(t, got.CodeExpiresAt)

	t.Run("attach wins once", func(t *testing.T) {
		require.NoError(t, s.TelegramLinks().AttachUser(ctx, link.ID, "code-1", u.ID, t0))
		require.ErrorIs(t, s.TelegramLinks().AttachUser(ctx, link.ID, "code-1", u.ID, t0), store.ErrNotFound)

		byUser, err := s.TelegramLinks().GetLinkByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.EqualValues(t, 4242, byUser.ChatID)
		require.True(t, byUser.Verified())
		require.Nil(t, byUser.VerificationCode)
	})

	t.Run("housekeeping clears stale codes", func(t *testing.T) {
		other := domain.TelegramLink{ID: idx.New(), ChatID: 7, CreatedAt: t0, UpdatedAt: t0}
		require.NoError(t, s.TelegramLinks().CreateLink(ctx, other))
		require.NoError(t, s.TelegramLinks().SetVerificationCode(ctx, 7, "code-2", t0.Add(time.Minute), t0))

		n, err := s.TelegramLinks().ClearExpiredCodes(ctx, t0.Add(time.Hour))
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		got, err := s.TelegramLinks().GetLinkByChatID(ctx, 7)
		require.NoError(t, err)
		require.Nil(t, got.VerificationCode)
	})
}

func TestListVisibilityAndCascade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	owner := seedUser(t, s, "owner")
	reader := seedUser(t, s, "reader")
	stranger := seedUser(t, s, "stranger")

	b := seedBoard(t, s, "Home", owner, t0)
	require.NoError(t, s.Participants().CreateParticipant(ctx, domain.Participant{
		ID: idx.New(), BoardID: b.ID, UserID: reader.ID, Role: domain.RoleReader, CreatedAt: t0, UpdatedAt: t0,
	}))
	c := seedCategory(t, s, b, owner, "Chores")
	g := seedGoal(t, s, c, owner, domain.Goal{Title: "Dishes"})
	require.NoError(t, s.Comments().CreateComment(ctx, domain.Comment{
		ID: idx.New(), GoalID: g.ID, User: owner.Author(), Text: "soon", CreatedAt: t0, UpdatedAt: t0,
	}))

	t.Run("participants see the hierarchy", func(t *testing.T) {
		for _, u := range []domain.User{owner, reader} {
			boards, n, err := s.Boards().ListBoards(ctx, u.ID, store.BoardFilter{})
			require.NoError(t, err)
			require.Equal(t, 1, n)
			require.Equal(t, "Home", boards[0].Title)

			cats, n, err := s.Categories().ListCategories(ctx, u.ID, store.CategoryFilter{})
			require.NoError(t, err)
			require.Equal(t, 1, n)
			require.Equal(t, "owner", cats[0].User.Username)

			goals, n, err := s.Goals().ListGoals(ctx, u.ID, store.GoalFilter{})
			require.NoError(t, err)
			require.Equal(t, 1, n)
			require.Equal(t, g.ID, goals[0].ID)

			_, n, err = s.Comments().ListComments(ctx, u.ID, store.CommentFilter{GoalID: g.ID})
			require.NoError(t, err)
			require.Equal(t, 1, n)
		}
	})

	t.Run("strangers see nothing", func(t *testing.T) {
		_, n, err := s.Boards().ListBoards(ctx, stranger.ID, store.BoardFilter{})
		require.NoError(t, err)
		require.Zero(t, n)

		_, n, err = s.Goals().ListGoals(ctx, stranger.ID, store.GoalFilter{})
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("participants list owner first", func(t *testing.T) {
		ps, err := s.Participants().ListParticipants(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, ps, 2)
		require.Equal(t, domain.RoleOwner, ps[0].Role)
		require.Equal(t, "owner", ps[0].Username)
	})

	t.Run("board deletion cascades in one transaction", func(t *testing.T) {
		at := t0.Add(time.Hour)
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Boards().MarkBoardDeleted(ctx, b.ID, at); err != nil {
				return err
			}
			if err := tx.Categories().MarkCategoriesDeletedByBoard(ctx, b.ID, at); err != nil {
				return err
			}
			return tx.Goals().ArchiveGoalsByBoard(ctx, b.ID, at)
		})
		require.NoError(t, err)

		gotBoard, err := s.Boards().GetBoardByID(ctx, b.ID)
		require.NoError(t, err)
		require.True(t, gotBoard.IsDeleted)

		gotCat, err := s.Categories().GetCategoryByID(ctx, c.ID)
		require.NoError(t, err)
		require.True(t, gotCat.IsDeleted)

		gotGoal, err := s.Goals().GetGoalByID(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusArchived, gotGoal.Status)

		_, n, err := s.Boards().ListBoards(ctx, owner.ID, store.BoardFilter{})
		require.NoError(t, err)
		require.Zero(t, n)

		_, n, err = s.Comments().ListComments(ctx, owner.ID, store.CommentFilter{})
		require.NoError(t, err)
		require.Zero(t, n)
	})
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	owner := seedUser(t, s, "owner")
	b := seedBoard(t, s, "Work", owner, t0)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Boards().UpdateBoardTitle(ctx, b.ID, "Renamed", t0))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Boards().GetBoardByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "Work", got.Title)
}

func TestListGoalsFiltering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "dana")
	b := seedBoard(t, s, "Life", u, t0)
	fitness := seedCategory(t, s, b, u, "Fitness")
	reading := seedCategory(t, s, b, u, "Reading")

	run := seedGoal(t, s, fitness, u, domain.Goal{Title: "Run 5k", Description: "park loop",
		DueDate: ptr("2026-04-01"), Priority: domain.PriorityHigh, CreatedAt: t0})
	swim := seedGoal(t, s, fitness, u, domain.Goal{Title: "Swim", Status: domain.StatusDone,
		Priority: domain.PriorityLow, CreatedAt: t0.Add(time.Minute)})
	book := seedGoal(t, s, reading, u, domain.Goal{Title: "Read Dune", Description: "100% of it",
		DueDate: ptr("2026-05-01"), Priority: domain.PriorityCritical, CreatedAt: t0.Add(2 * time.Minute)})
	seedGoal(t, s, reading, u, domain.Goal{Title: "Old", Status: domain.StatusArchived})

	ids := func(goals []domain.Goal) []string {
		out := make([]string, len(goals))
		for i, g := range goals {
			out[i] = g.ID
		}
		return out
	}

	tests := []struct {
		name   string
		filter store.GoalFilter
		want   []string
	}{
		{"default title order hides archived", store.GoalFilter{}, []string{book.ID, run.ID, swim.ID}},
		{"category", store.GoalFilter{CategoryIDs: []string{fitness.ID}}, []string{run.ID, swim.ID}},
		{"status", store.GoalFilter{Statuses: []string{"done"}}, []string{swim.ID}},
		{"priority set", store.GoalFilter{Priorities: []string{"high", "critical"}}, []string{book.ID, run.ID}},
		{"due range", store.GoalFilter{DueDateGTE: "2026-04-01", DueDateLTE: "2026-04-30"}, []string{run.ID}},
		{"search description", store.GoalFilter{Search: "PARK"}, []string{run.ID}},
		{"search literal percent", store.GoalFilter{Search: "100%"}, []string{book.ID}},
		{"priority desc", store.GoalFilter{Ordering: store.Ordering{Field: "priority", Desc: true}}, []string{book.ID, run.ID, swim.ID}},
		{"due date nulls last", store.GoalFilter{Ordering: store.Ordering{Field: "due_date"}}, []string{run.ID, book.ID, swim.ID}},
		{"created desc", store.GoalFilter{Ordering: store.Ordering{Field: "created", Desc: true}}, []string{book.ID, swim.ID, run.ID}},
		{"paged", store.GoalFilter{Page: store.Page{Limit: 1, Offset: 1}}, []string{run.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goals, total, err := s.Goals().ListGoals(ctx, u.ID, tt.filter)
			require.NoError(t, err)
			require.Equal(t, tt.want, ids(goals))
			if tt.filter.Page.Limit == 0 {
				require.Equal(t, len(tt.want), total)
			} else {
				require.Equal(t, 3, total)
			}
		})
	}
}
