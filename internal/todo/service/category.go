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

type CategoryInput struct {
	Board *string // create only
	Title *string
}

type CategoryService struct {
	Store store.Store
	Now   func() time.Time
}

// Create adds a category to a live board. Owner or writer.
func (s *CategoryService) Create(ctx context.Context, actorID string, in CategoryInput) (domain.Category, error) {
	log := slogx.FromContext(ctx)

	verr := &ValidationError{}
	title := ""
	if in.Title == nil {
		verr.Add("title", msgRequired)
	} else {
		title = strings.TrimSpace(*in.Title)
		checkTitle(verr, title)
	}

	var board domain.Board
	if in.Board == nil || *in.Board == "" {
		verr.Add("board", msgRequired)
	} else {
		b, err := s.Store.Boards().GetBoardByID(ctx, *in.Board)
		switch {
		case errors.Is(err, store.ErrNotFound):
			verr.Add("board", msgDoesNotExist)
		case err != nil:
			return domain.Category{}, err
		case b.IsDeleted:
			verr.Add("board", msgDeletedBoard)
		default:
			board = b
		}
	}
	if err := verr.Err(); err != nil {
		return domain.Category{}, err
	}

	if _, err := authorize(ctx, s.Store, board.ID, actorID, ResourceCategory, ActionCreate, false); err != nil {
		return domain.Category{}, err
	}

	author, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		return domain.Category{}, fmt.Errorf("load author: %w", err)
	}

	now := nowUTC(s.Now)
	c := domain.Category{
		ID:        idx.New(),
		BoardID:   board.ID,
		User:      author.Author(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Categories().CreateCategory(ctx, c); err != nil {
		log.Error("failed to create category", slog.Any("error", err))
		return domain.Category{}, err
	}

	log.Info("category created", slog.String("category_id", c.ID), slog.String("board_id", board.ID))
	return c, nil
}

// Get returns a live category to any participant of its board.
func (s *CategoryService) Get(ctx context.Context, actorID, id string) (domain.Category, error) {
	c, err := s.load(ctx, actorID, id, ActionRead)
	if err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

// List returns categories visible to actorID, optionally on one board.
func (s *CategoryService) List(ctx context.Context, actorID, boardID string, opts ListOptions) (Page[domain.Category], error) {
	verr := &ValidationError{}
	page := parsePage(opts, verr)
	ordering, err := parseOrdering(opts.Ordering, store.CategoryOrderings, store.Ordering{Field: "title"})
	if err != nil {
		return Page[domain.Category]{}, err
	}
	if err := verr.Err(); err != nil {
		return Page[domain.Category]{}, err
	}

	cats, n, err := s.Store.Categories().ListCategories(ctx, actorID, store.CategoryFilter{
		BoardID:  boardID,
		Search:   opts.Search,
		Ordering: ordering,
		Page:     page,
	})
	if err != nil {
		return Page[domain.Category]{}, err
	}
	return Page[domain.Category]{Count: n, Results: cats}, nil
}

// Update renames a category. The board cannot be changed.
func (s *CategoryService) Update(ctx context.Context, actorID, id string, in CategoryInput, partial bool) (domain.Category, error) {
	c, err := s.load(ctx, actorID, id, ActionWrite)
	if err != nil {
		return domain.Category{}, err
	}

	verr := &ValidationError{}
	if in.Board != nil && *in.Board != c.BoardID {
		verr.Add("board", msgReadOnlyField)
	}
	if in.Title == nil && !partial {
		verr.Add("title", msgRequired)
	}
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
		checkTitle(verr, c.Title)
	}
	if err := verr.Err(); err != nil {
		return domain.Category{}, err
	}

	if in.Title != nil {
		c.UpdatedAt = nowUTC(s.Now)
		if err := s.Store.Categories().UpdateCategoryTitle(ctx, c.ID, c.Title, c.UpdatedAt); err != nil {
			return domain.Category{}, err
		}
	}
	return c, nil
}

// Delete soft-deletes the category and archives its goals atomically.
func (s *CategoryService) Delete(ctx context.Context, actorID, id string) error {
	log := slogx.FromContext(ctx)

	c, err := s.load(ctx, actorID, id, ActionDelete)
	if err != nil {
		return err
	}

	now := nowUTC(s.Now)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Categories().MarkCategoryDeleted(ctx, c.ID, now); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		if err := tx.Goals().ArchiveGoalsByCategory(ctx, c.ID, now); err != nil {
			return fmt.Errorf("archive goals: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to delete category", slog.String("category_id", c.ID), slog.Any("error", err))
		return err
	}

	log.Info("category deleted", slog.String("category_id", c.ID))
	return nil
}

// load returns category id for actorID, checking board membership before
// the deleted flag and the role for act last.
func (s *CategoryService) load(ctx context.Context, actorID, id string, act Action) (domain.Category, error) {
	c, err := s.Store.Categories().GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Category{}, ErrNotFound
		}
		return domain.Category{}, err
	}
	role, err := authorize(ctx, s.Store, c.BoardID, actorID, ResourceCategory, ActionRead, false)
	if err != nil {
		return domain.Category{}, err
	}
	if c.IsDeleted {
		return domain.Category{}, ErrNotFound
	}
	if !Allowed(ResourceCategory, act, role, false) {
		return domain.Category{}, ErrForbidden
	}
	return c, nil
}
