package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Repositories hang off it so a transaction can hand out
// the same set bound to the open tx.
type Store interface {
	Users() Users
	Sessions() Sessions
	TelegramLinks() TelegramLinks
	Boards() Boards
	Participants() Participants
	Categories() Categories
	Goals() Goals
	Comments() Comments

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn only use the tx argument, never the
	// outer store.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts u. ErrAlreadyExists on a duplicate username or email.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername matches case-insensitively.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// UsernameTaken reports whether another account (not exceptID) holds
	// username, compared case-insensitively.
	UsernameTaken(ctx context.Context, username, exceptID string) (bool, error)

	// EmailTaken is UsernameTaken for email. Empty emails are never taken.
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)

	// UpdateProfile writes username, email, first and last name.
	UpdateProfile(ctx context.Context, u domain.User) error

	UpdatePasswordHash(ctx context.Context, userID, hash string, at time.Time) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	// GetActiveSession returns the session for tokenHash unless it expired
	// before now.
	GetActiveSession(ctx context.Context, tokenHash string, now time.Time) (domain.Session, error)

	DeleteSession(ctx context.Context, tokenHash string) error

	// DeleteExpiredSessions is housekeeping; returns rows removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type TelegramLinks interface {
	// CreateLink inserts l. ErrAlreadyExists when the chat is already known.
	CreateLink(ctx context.Context, l domain.TelegramLink) error

	GetLinkByChatID(ctx context.Context, chatID int64) (domain.TelegramLink, error)

	// GetLinkByUserID returns the most recently verified chat of an account.
	GetLinkByUserID(ctx context.Context, userID string) (domain.TelegramLink, error)

	// SetVerificationCode replaces the chat's code and its expiry.
	SetVerificationCode(ctx context.Context, chatID int64, code string, expiresAt, at time.Time) error

	// GetLinkByCode returns the link holding code if it has not expired.
	GetLinkByCode(ctx context.Context, code string, now time.Time) (domain.TelegramLink, error)

	// AttachUser sets user_id and clears the code, but only while the link
	// still holds code. ErrNotFound when another request got there first.
	AttachUser(ctx context.Context, linkID, code, userID string, at time.Time) error

	// ClearExpiredCodes is housekeeping; returns rows touched.
	ClearExpiredCodes(ctx context.Context, now time.Time) (int64, error)
}

type Boards interface {
	CreateBoard(ctx context.Context, b domain.Board) error
	GetBoardByID(ctx context.Context, id string) (domain.Board, error)
	UpdateBoardTitle(ctx context.Context, id, title string, at time.Time) error

	// MarkBoardDeleted sets is_deleted. The cascade to categories and goals
	// is the caller's job, in the same transaction.
	MarkBoardDeleted(ctx context.Context, id string, at time.Time) error

	// ListBoards returns the non-deleted boards userID participates in.
	ListBoards(ctx context.Context, userID string, f BoardFilter) ([]domain.Board, int, error)
}

type Participants interface {
	CreateParticipant(ctx context.Context, p domain.Participant) error

	// GetParticipant returns userID's membership of boardID.
	GetParticipant(ctx context.Context, boardID, userID string) (domain.Participant, error)

	// ListParticipants returns a board's participants, owner first.
	ListParticipants(ctx context.Context, boardID string) ([]domain.Participant, error)

	// DeleteNonOwners removes every writer and reader of boardID.
	DeleteNonOwners(ctx context.Context, boardID string) error
}

type Categories interface {
	CreateCategory(ctx context.Context, c domain.Category) error
	GetCategoryByID(ctx context.Context, id string) (domain.Category, error)
	UpdateCategoryTitle(ctx context.Context, id, title string, at time.Time) error
	MarkCategoryDeleted(ctx context.Context, id string, at time.Time) error

	// MarkCategoriesDeletedByBoard soft-deletes every category of boardID.
	MarkCategoriesDeletedByBoard(ctx context.Context, boardID string, at time.Time) error

	// ListCategories returns non-deleted categories on non-deleted boards
	// userID participates in.
	ListCategories(ctx context.Context, userID string, f CategoryFilter) ([]domain.Category, int, error)
}

type Goals interface {
	CreateGoal(ctx context.Context, g domain.Goal) error
	GetGoalByID(ctx context.Context, id string) (domain.Goal, error)

	// UpdateGoal writes the editable fields of g: category, title,
	// description, due date, status and priority.
	UpdateGoal(ctx context.Context, g domain.Goal) error

	ArchiveGoal(ctx context.Context, id string, at time.Time) error
	ArchiveGoalsByCategory(ctx context.Context, categoryID string, at time.Time) error
	ArchiveGoalsByBoard(ctx context.Context, boardID string, at time.Time) error

	// ListGoals returns non-archived goals in non-deleted categories of
	// boards userID participates in.
	ListGoals(ctx context.Context, userID string, f GoalFilter) ([]domain.Goal, int, error)
}

type Comments interface {
	CreateComment(ctx context.Context, c domain.Comment) error
	GetCommentByID(ctx context.Context, id string) (domain.Comment, error)
	UpdateCommentText(ctx context.Context, id, text string, at time.Time) error

	// DeleteComment removes the row.
	DeleteComment(ctx context.Context, id string) error

	// ListComments returns comments on non-archived goals of boards userID
	// participates in.
	ListComments(ctx context.Context, userID string, f CommentFilter) ([]domain.Comment, int, error)
}
