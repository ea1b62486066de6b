package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
	"github.com/aussiebroadwan/todolist/pkg/idx"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
)

const maxTitleLength = 255

// BoardDetail is a board with its participants, owner first.
type BoardDetail struct {
	domain.Board
	Participants []domain.Participant
}

type ParticipantInput struct {
	Username string
	Role     domain.Role
}

// BoardInput holds board fields; nil leaves a field unchanged. A non-nil
// Participants replaces every non-owner participant.
type BoardInput struct {
	Title        *string
	Participants *[]ParticipantInput
}

type BoardService struct {
	Store store.Store
	Now   func() time.Time
}

// Create inserts the board and makes actorID its owner, atomically.
func (s *BoardService) Create(ctx context.Context, actorID, title string) (BoardDetail, error) {
	log := slogx.FromContext(ctx)

	title = strings.TrimSpace(title)
	verr := &ValidationError{}
	checkTitle(verr, title)
	if err := verr.Err(); err != nil {
		return BoardDetail{}, err
	}

	now := nowUTC(s.Now)
	b := domain.Board{ID: idx.New(), Title: title, CreatedAt: now, UpdatedAt: now}
	owner := domain.Participant{
		ID:        idx.New(),
		BoardID:   b.ID,
		UserID:    actorID,
		Role:      domain.RoleOwner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Boards().CreateBoard(ctx, b); err != nil {
			return fmt.Errorf("create board: %w", err)
		}
		if err := tx.Participants().CreateParticipant(ctx, owner); err != nil {
			return fmt.Errorf("create owner: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create board", slog.Any("error", err))
		return BoardDetail{}, err
	}

	log.Info("board created", slog.String("board_id", b.ID))
	return s.detail(ctx, s.Store, b)
}

// Get returns a board the actor participates in. A deleted board is
// ErrNotFound to its participants and ErrForbidden to everyone else.
func (s *BoardService) Get(ctx context.Context, actorID, id string) (BoardDetail, error) {
	b, err := s.load(ctx, actorID, id, ActionRead)
	if err != nil {
		return BoardDetail{}, err
	}
	return s.detail(ctx, s.Store, b)
}

func (s *BoardService) List(ctx context.Context, actorID string, opts ListOptions) (Page[domain.Board], error) {
	verr := &ValidationError{}
	page := parsePage(opts, verr)
	ordering, err := parseOrdering(opts.Ordering, store.BoardOrderings, store.Ordering{Field: "title"})
	if err != nil {
		return Page[domain.Board]{}, err
	}
	if err := verr.Err(); err != nil {
		return Page[domain.Board]{}, err
	}

	boards, n, err := s.Store.Boards().ListBoards(ctx, actorID, store.BoardFilter{
		Search:   opts.Search,
		Ordering: ordering,
		Page:     page,
	})
	if err != nil {
		return Page[domain.Board]{}, err
	}
	return Page[domain.Board]{Count: n, Results: boards}, nil
}

// Update changes the title and, when given, the participant list. Owner only.
func (s *BoardService) Update(ctx context.Context, actorID, id string, in BoardInput, partial bool) (BoardDetail, error) {
	log := slogx.FromContext(ctx)

	b, err := s.load(ctx, actorID, id, ActionWrite)
	if err != nil {
		return BoardDetail{}, err
	}

	verr := &ValidationError{}
	if in.Title == nil && !partial {
		verr.Add("title", msgRequired)
	}
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
		checkTitle(verr, b.Title)
	}

	var members []domain.Participant
	if in.Participants != nil {
		members = s.resolveParticipants(ctx, verr, b.ID, actorID, *in.Participants)
	}
	if err := verr.Err(); err != nil {
		return BoardDetail{}, err
	}

	now := nowUTC(s.Now)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if in.Title != nil {
			if err := tx.Boards().UpdateBoardTitle(ctx, b.ID, b.Title, now); err != nil {
				return fmt.Errorf("update board: %w", err)
			}
		}
		if in.Participants == nil {
			return nil
		}
		if err := tx.Participants().DeleteNonOwners(ctx, b.ID); err != nil {
			return fmt.Errorf("clear participants: %w", err)
		}
		for _, p := range members {
			p.ID = idx.New()
			p.CreatedAt = now
			p.UpdatedAt = now
			if err := tx.Participants().CreateParticipant(ctx, p); err != nil {
				return fmt.Errorf("add participant: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to update board", slog.String("board_id", b.ID), slog.Any("error", err))
		return BoardDetail{}, err
	}

	b, err = s.Store.Boards().GetBoardByID(ctx, b.ID)
	if err != nil {
		return BoardDetail{}, err
	}
	return s.detail(ctx, s.Store, b)
}

// Delete soft-deletes the board, its categories and archives every goal
// below them in one transaction. Owner only.
func (s *BoardService) Delete(ctx context.Context, actorID, id string) error {
	log := slogx.FromContext(ctx)

	b, err := s.load(ctx, actorID, id, ActionDelete)
	if err != nil {
		return err
	}

	now := nowUTC(s.Now)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Boards().MarkBoardDeleted(ctx, b.ID, now); err != nil {
			return fmt.Errorf("delete board: %w", err)
		}
		if err := tx.Categories().MarkCategoriesDeletedByBoard(ctx, b.ID, now); err != nil {
			return fmt.Errorf("delete categories: %w", err)
		}
		if err := tx.Goals().ArchiveGoalsByBoard(ctx, b.ID, now); err != nil {
			return fmt.Errorf("archive goals: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to delete board", slog.String("board_id", b.ID), slog.Any("error", err))
		return err
	}

	log.Info("board deleted", slog.String("board_id", b.ID))
	return nil
}

// load returns board id for actorID. Membership is checked before the
// deleted flag, so outsiders get ErrForbidden whether or not the board is
// deleted; the role check for act comes last.
func (s *BoardService) load(ctx context.Context, actorID, id string, act Action) (domain.Board, error) {
	b, err := s.Store.Boards().GetBoardByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Board{}, ErrNotFound
		}
		return domain.Board{}, err
	}
	role, err := authorize(ctx, s.Store, b.ID, actorID, ResourceBoard, ActionRead, false)
	if err != nil {
		return domain.Board{}, err
	}
	if b.IsDeleted {
		return domain.Board{}, ErrNotFound
	}
	if !Allowed(ResourceBoard, act, role, false) {
		return domain.Board{}, ErrForbidden
	}
	return b, nil
}

func (s *BoardService) detail(ctx context.Context, st store.Store, b domain.Board) (BoardDetail, error) {
	ps, err := st.Participants().ListParticipants(ctx, b.ID)
	if err != nil {
		return BoardDetail{}, err
	}
	return BoardDetail{Board: b, Participants: ps}, nil
}

// resolveParticipants maps usernames to accounts and checks the roles.
func (s *BoardService) resolveParticipants(ctx context.Context, verr *ValidationError, boardID, ownerID string, in []ParticipantInput) []domain.Participant {
	seen := make(map[string]bool, len(in))
	out := make([]domain.Participant, 0, len(in))

	for _, p := range in {
		name := strings.TrimSpace(p.Username)
		if name == "" {
			verr.Add("participants", "user: "+msgRequired)
			continue
		}
		if p.Role != domain.RoleWriter && p.Role != domain.RoleReader {
			verr.Add("participants", fmt.Sprintf("role %q is not a valid choice for %s.", p.Role, name))
			continue
		}

		u, err := s.Store.Users().GetUserByUsername(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				verr.Add("participants", fmt.Sprintf("user %s does not exist.", name))
				continue
			}
			slogx.FromContext(ctx).Error("participant lookup failed", slog.Any("error", err))
			verr.Add("participants", "Could not check user "+name+".")
			continue
		}
		if u.ID == ownerID {
			verr.Add("participants", "The board owner cannot be changed.")
			continue
		}
		if seen[u.ID] {
			verr.Add("participants", fmt.Sprintf("user %s is listed more than once.", name))
			continue
		}
		seen[u.ID] = true

		out = append(out, domain.Participant{BoardID: boardID, UserID: u.ID, Username: u.Username, Role: p.Role})
	}
	return out
}

func checkTitle(verr *ValidationError, title string) {
	switch {
	case title == "":
		verr.Add("title", msgBlank)
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", maxTitleLength))
	}
}
