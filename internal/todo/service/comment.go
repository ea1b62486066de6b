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

type CommentInput struct {
	User *string
	Goal *string // create only
	Text *string
}

type CommentService struct {
	Store store.Store
	Now   func() time.Time
}

// Create comments on a goal that is not archived. Owner or writer.
func (s *CommentService) Create(ctx context.Context, actorID string, in CommentInput) (domain.Comment, error) {
	log := slogx.FromContext(ctx)

	verr := &ValidationError{}
	text := ""
	if in.Text == nil {
		verr.Add("text", msgRequired)
	} else if text = strings.TrimSpace(*in.Text); text == "" {
		verr.Add("text", msgBlank)
	}

	var boardID, goalID string
	if in.Goal == nil || *in.Goal == "" {
		verr.Add("goal", msgRequired)
	} else {
		g, cat, err := s.goal(ctx, *in.Goal)
		switch {
		case errors.Is(err, ErrNotFound):
			verr.Add("goal", msgDoesNotExist)
		case err != nil:
			return domain.Comment{}, err
		case g.IsArchived():
			verr.Add("goal", msgDeletedGoal)
		default:
			boardID, goalID = cat.BoardID, g.ID
		}
	}
	if err := verr.Err(); err != nil {
		return domain.Comment{}, err
	}

	if in.User != nil && *in.User != actorID {
		log.Warn("comment create on behalf of another user", slog.String("user", *in.User))
		return domain.Comment{}, ErrForbidden
	}
	if _, err := authorize(ctx, s.Store, boardID, actorID, ResourceComment, ActionCreate, true); err != nil {
		return domain.Comment{}, err
	}

	author, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("load author: %w", err)
	}

	now := nowUTC(s.Now)
	c := domain.Comment{
		ID:        idx.New(),
		GoalID:    goalID,
		User:      author.Author(),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Comments().CreateComment(ctx, c); err != nil {
		log.Error("failed to create comment", slog.Any("error", err))
		return domain.Comment{}, err
	}
	return c, nil
}

// Get returns a comment to any participant, even on an archived goal.
func (s *CommentService) Get(ctx context.Context, actorID, id string) (domain.Comment, error) {
	c, _, boardID, err := s.load(ctx, id)
	if err != nil {
		return domain.Comment{}, err
	}
	if _, err := authorize(ctx, s.Store, boardID, actorID, ResourceComment, ActionRead, false); err != nil {
		return domain.Comment{}, err
	}
	return c, nil
}

// List returns comments on live goals, newest first by default.
func (s *CommentService) List(ctx context.Context, actorID, goalID string, opts ListOptions) (Page[domain.Comment], error) {
	verr := &ValidationError{}
	page := parsePage(opts, verr)
	ordering, err := parseOrdering(opts.Ordering, store.CommentOrderings, store.Ordering{Field: "created", Desc: true})
	if err != nil {
		return Page[domain.Comment]{}, err
	}
	if err := verr.Err(); err != nil {
		return Page[domain.Comment]{}, err
	}

	comments, n, err := s.Store.Comments().ListComments(ctx, actorID, store.CommentFilter{
		GoalID:   goalID,
		Ordering: ordering,
		Page:     page,
	})
	if err != nil {
		return Page[domain.Comment]{}, err
	}
	return Page[domain.Comment]{Count: n, Results: comments}, nil
}

// Update edits the text. Author only, and not on an archived goal.
func (s *CommentService) Update(ctx context.Context, actorID, id string, in CommentInput, partial bool) (domain.Comment, error) {
	c, err := s.writable(ctx, actorID, id, ActionWrite)
	if err != nil {
		return domain.Comment{}, err
	}

	verr := &ValidationError{}
	if in.Goal != nil && *in.Goal != c.GoalID {
		verr.Add("goal", msgReadOnlyField)
	}
	if in.Text == nil && !partial {
		verr.Add("text", msgRequired)
	}
	if in.Text != nil {
		if c.Text = strings.TrimSpace(*in.Text); c.Text == "" {
			verr.Add("text", msgBlank)
		}
	}
	if err := verr.Err(); err != nil {
		return domain.Comment{}, err
	}

	if in.Text != nil {
		c.UpdatedAt = nowUTC(s.Now)
		if err := s.Store.Comments().UpdateCommentText(ctx, c.ID, c.Text, c.UpdatedAt); err != nil {
			return domain.Comment{}, err
		}
	}
	return c, nil
}

// Delete removes the comment. Author only, and not on an archived goal.
func (s *CommentService) Delete(ctx context.Context, actorID, id string) error {
	c, err := s.writable(ctx, actorID, id, ActionDelete)
	if err != nil {
		return err
	}
	if err := s.Store.Comments().DeleteComment(ctx, c.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// writable loads a comment for a mutation: participant check, then the
// goal state, then authorship.
func (s *CommentService) writable(ctx context.Context, actorID, id string, act Action) (domain.Comment, error) {
	c, g, boardID, err := s.load(ctx, id)
	if err != nil {
		return domain.Comment{}, err
	}
	if _, err := authorize(ctx, s.Store, boardID, actorID, ResourceComment, ActionRead, false); err != nil {
		return domain.Comment{}, err
	}
	if g.IsArchived() {
		return domain.Comment{}, invalid("goal", msgDeletedGoal)
	}
	if _, err := authorize(ctx, s.Store, boardID, actorID, ResourceComment, act, c.User.ID == actorID); err != nil {
		return domain.Comment{}, err
	}
	return c, nil
}

func (s *CommentService) load(ctx context.Context, id string) (domain.Comment, domain.Goal, string, error) {
	c, err := s.Store.Comments().GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, domain.Goal{}, "", ErrNotFound
		}
		return domain.Comment{}, domain.Goal{}, "", err
	}
	g, cat, err := s.goal(ctx, c.GoalID)
	if err != nil {
		return domain.Comment{}, domain.Goal{}, "", err
	}
	return c, g, cat.BoardID, nil
}

func (s *CommentService) goal(ctx context.Context, id string) (domain.Goal, domain.Category, error) {
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
