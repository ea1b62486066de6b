package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
	"github.com/aussiebroadwan/todolist/pkg/idx"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
)

// GoalInput holds goal fields; nil leaves a field unchanged. An empty
// DueDate clears it. User, when set, must be the acting account.
type GoalInput struct {
	User        *string
	Category    *string
	Title       *string
	Description *string
	DueDate     *string
	Status      *domain.GoalStatus
	Priority    *domain.Priority
}

// GoalQuery are the goal listing filters. Empty fields do not filter.
type GoalQuery struct {
	CategoryIDs []string
	Statuses    []domain.GoalStatus
	Priorities  []domain.Priority
	DueDateGTE  string
	DueDateLTE  string
}

type GoalService struct {
	Store store.Store
	Now   func() time.Time
}

// Create adds a goal to a live category. Owner or writer on its board.
func (s *GoalService) Create(ctx context.Context, actorID string, in GoalInput) (domain.Goal, error) {
	log := slogx.FromContext(ctx)
	today := nowUTC(s.Now).Format(domain.DateLayout)

	g := domain.Goal{Status: domain.StatusToDo, Priority: domain.PriorityMedium}

	verr := &ValidationError{}
	if in.Title == nil {
		verr.Add("title", msgRequired)
	}
	if in.Category == nil || *in.Category == "" {
		verr.Add("category", msgRequired)
	}
	applyGoalFields(verr, &g, in, today)

	var cat domain.Category
	if in.Category != nil && *in.Category != "" {
		c, err := s.liveCategory(ctx, verr, *in.Category)
		if err != nil {
			return domain.Goal{}, err
		}
		cat = c
	}
	if err := verr.Err(); err != nil {
		return domain.Goal{}, err
	}

	if in.User != nil && *in.User != actorID {
		log.Warn("goal create on behalf of another user", slog.String("user", *in.User))
		return domain.Goal{}, ErrForbidden
	}
	if _, err := authorize(ctx, s.Store, cat.BoardID, actorID, ResourceGoal, ActionCreate, false); err != nil {
		return domain.Goal{}, err
	}

	author, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("load author: %w", err)
	}

	now := nowUTC(s.Now)
	g.ID = idx.New()
	g.CategoryID = cat.ID
	g.User = author.Author()
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := s.Store.Goals().CreateGoal(ctx, g); err != nil {
		log.Error("failed to create goal", slog.Any("error", err))
		return domain.Goal{}, err
	}

	log.Info("goal created", slog.String("goal_id", g.ID), slog.String("category_id", cat.ID))
	return g, nil
}

// Get returns a goal in any status, archived included.
func (s *GoalService) Get(ctx context.Context, actorID, id string) (domain.Goal, error) {
	g, cat, err := s.load(ctx, id)
	if err != nil {
		return domain.Goal{}, err
	}
	if _, err := authorize(ctx, s.Store, cat.BoardID, actorID, ResourceGoal, ActionRead, false); err != nil {
		return domain.Goal{}, err
	}
	return g, nil
}

func (s *GoalService) List(ctx context.Context, actorID string, q GoalQuery, opts ListOptions) (Page[domain.Goal], error) {
	verr := &ValidationError{}
	page := parsePage(opts, verr)
	ordering, err := parseOrdering(opts.Ordering, store.GoalOrderings, store.Ordering{Field: "title"})
	if err != nil {
		return Page[domain.Goal]{}, err
	}

	f := store.GoalFilter{
		CategoryIDs: q.CategoryIDs,
		Search:      opts.Search,
		Ordering:    ordering,
		Page:        page,
	}
	for _, st := range q.Statuses {
		if !st.Valid() {
			verr.Add("status", fmt.Sprintf("%q is not a valid choice.", st))
		}
		f.Statuses = append(f.Statuses, string(st))
	}
	for _, p := range q.Priorities {
		if !p.Valid() {
			verr.Add("priority", fmt.Sprintf("%q is not a valid choice.", p))
		}
		f.Priorities = append(f.Priorities, string(p))
	}
	if q.DueDateGTE != "" {
		f.DueDateGTE = parseDate(verr, "due_date__gte", q.DueDateGTE)
	}
	if q.DueDateLTE != "" {
		f.DueDateLTE = parseDate(verr, "due_date__lte", q.DueDateLTE)
	}
	if err := verr.Err(); err != nil {
		return Page[domain.Goal]{}, err
	}

	goals, n, err := s.Store.Goals().ListGoals(ctx, actorID, f)
	if err != nil {
		return Page[domain.Goal]{}, err
	}
	return Page[domain.Goal]{Count: n, Results: goals}, nil
}

// Update edits a goal that is not archived. Moving it to another category
// needs write access there too.
func (s *GoalService) Update(ctx context.Context, actorID, id string, in GoalInput, partial bool) (domain.Goal, error) {
	log := slogx.FromContext(ctx)
	today := nowUTC(s.Now).Format(domain.DateLayout)

	g, cat, err := s.load(ctx, id)
	if err != nil {
		return domain.Goal{}, err
	}
	if _, err := authorize(ctx, s.Store, cat.BoardID, actorID, ResourceGoal, ActionRead, false); err != nil {
		return domain.Goal{}, err
	}
	if g.IsArchived() {
		return domain.Goal{}, invalid(NonFieldErrors, msgDeletedGoal)
	}
	if _, err := authorize(ctx, s.Store, cat.BoardID, actorID, ResourceGoal, ActionWrite, false); err != nil {
		return domain.Goal{}, err
	}

	verr := &ValidationError{}
	if !partial {
		if in.Title == nil {
			verr.Add("title", msgRequired)
		}
		if in.Category == nil {
			verr.Add("category", msgRequired)
		}
	}
	applyGoalFields(verr, &g, in, today)

	target := cat
	if in.Category != nil && *in.Category != cat.ID {
		if *in.Category == "" {
			verr.Add("category", msgBlank)
		} else {
			c, err := s.liveCategory(ctx, verr, *in.Category)
			if err != nil {
				return domain.Goal{}, err
			}
			target = c
		}
	}
	if err := verr.Err(); err != nil {
		return domain.Goal{}, err
	}

	if target.ID != cat.ID {
		if _, err := authorize(ctx, s.Store, target.BoardID, actorID, ResourceGoal, ActionCreate, false); err != nil {
			return domain.Goal{}, err
		}
		g.CategoryID = target.ID
	}

	g.UpdatedAt = nowUTC(s.Now)
	if err := s.Store.Goals().UpdateGoal(ctx, g); err != nil {
		log.Error("failed to update goal", slog.String("goal_id", g.ID), slog.Any("error", err))
		return domain.Goal{}, err
	}
	return g, nil
}

// Delete archives the goal. Archiving twice is a no-op.
func (s *GoalService) Delete(ctx context.Context, actorID, id string) error {
	g, cat, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if _, err := authorize(ctx, s.Store, cat.BoardID, actorID, ResourceGoal, ActionDelete, false); err != nil {
		return err
	}
	if g.IsArchived() {
		return nil
	}

	if err := s.Store.Goals().ArchiveGoal(ctx, g.ID, nowUTC(s.Now)); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("goal archived", slog.String("goal_id", g.ID))
	return nil
}

// load returns the goal and its category regardless of their state.
func (s *GoalService) load(ctx context.Context, id string) (domain.Goal, domain.Category, error) {
	g, err := s.Store.Goals().GetGoalByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Goal{}, domain.Category{}, ErrNotFound
		}
		return domain.Goal{}, domain.Category{}, err
	}
	c, err := s.Store.Categories().GetCategoryByID(ctx, g.CategoryID)
	if err != nil {
		return domain.Goal{}, domain.Category{}, fmt.Errorf("load category: %w", err)
	}
	return g, c, nil
}

// liveCategory resolves a referenced category, recording a field error when
// it is missing or deleted.
func (s *GoalService) liveCategory(ctx context.Context, verr *ValidationError, id string) (domain.Category, error) {
	c, err := s.Store.Categories().GetCategoryByID(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		verr.Add("category", msgDoesNotExist)
		return domain.Category{}, nil
	case err != nil:
		return domain.Category{}, err
	case c.IsDeleted:
		verr.Add("category", msgDeletedCat)
		return domain.Category{}, nil
	}
	return c, nil
}

// applyGoalFields copies the set fields of in onto g, validating each.
func applyGoalFields(verr *ValidationError, g *domain.Goal, in GoalInput, today string) {
	if in.Title != nil {
		g.Title = strings.TrimSpace(*in.Title)
		checkTitle(verr, g.Title)
	}
	if in.Description != nil {
		g.Description = *in.Description
	}
	if in.DueDate != nil {
		if *in.DueDate == "" {
			g.DueDate = nil
		} else if d := parseDate(verr, "due_date", *in.DueDate); d != "" {
			if d < today {
				verr.Add("due_date", msgDateInPast)
			}
			g.DueDate = &d
		}
	}
	if in.Status != nil {
		switch {
		case !in.Status.Valid():
			verr.Add("status", fmt.Sprintf("%q is not a valid choice.", *in.Status))
		case *in.Status == domain.StatusArchived:
			verr.Add("status", "Goals are archived by deleting them.")
		default:
			g.Status = *in.Status
		}
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			verr.Add("priority", fmt.Sprintf("%q is not a valid choice.", *in.Priority))
		} else {
			g.Priority = *in.Priority
		}
	}
}

// parseDate returns raw in canonical YYYY-MM-DD form, or "" after recording
// a field error.
func parseDate(verr *ValidationError, field, raw string) string {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		verr.Add(field, msgDateFormat)
		return ""
	}
	return t.Format(domain.DateLayout)
}
