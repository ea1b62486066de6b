package todosdk

import (
	"time"

	"github.com/aussiebroadwan/todolist/pkg/jwtx"
)

// ============================================================================
// Accounts
// ============================================================================

// Profile is the public view of an account.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type SignUpRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Password       string `json:"password"`
	PasswordRepeat string `json:"password_repeat"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileRequest updates the profile. PUT requires username; PATCH sends only
// the fields that are set.
type ProfileRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// TokenRequest exchanges credentials for a bearer access token.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ============================================================================
// Boards
// ============================================================================

type Participant struct {
	ID      string    `json:"id"`
	User    string    `json:"user"` // username
	Role    string    `json:"role"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

type Board struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	IsDeleted    bool          `json:"is_deleted"`
	Participants []Participant `json:"participants,omitempty"`
	Created      time.Time     `json:"created"`
	Updated      time.Time     `json:"updated"`
}

// ParticipantRequest grants a non-owner role on a board.
type ParticipantRequest struct {
	User string `json:"user"` // username
	Role string `json:"role"` // writer or reader
}

// BoardRequest creates or updates a board. Participants, when present on an
// update, replaces every non-owner participant.
type BoardRequest struct {
	Title        *string               `json:"title,omitempty"`
	Participants *[]ParticipantRequest `json:"participants,omitempty"`
}

// ============================================================================
// Categories, goals, comments
// ============================================================================

type Category struct {
	ID        string    `json:"id"`
	Board     string    `json:"board"`
	User      Profile   `json:"user"`
	Title     string    `json:"title"`
	IsDeleted bool      `json:"is_deleted"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
}

type CategoryRequest struct {
	Board *string `json:"board,omitempty"`
	Title *string `json:"title,omitempty"`
}

type Goal struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	User        Profile   `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// GoalRequest creates or updates a goal. An empty DueDate clears the date.
// User, when set, must be the caller's own account id.
type GoalRequest struct {
	User        *string `json:"user,omitempty"`
	Category    *string `json:"category,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

type Comment struct {
	ID      string    `json:"id"`
	Goal    string    `json:"goal"`
	User    Profile   `json:"user"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

type CommentRequest struct {
	User *string `json:"user,omitempty"`
	Goal *string `json:"goal,omitempty"`
	Text *string `json:"text,omitempty"`
}

// Page is one page of a listing.
type Page[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

type (
	BoardPage    = Page[Board]
	CategoryPage = Page[Category]
	GoalPage     = Page[Goal]
	CommentPage  = Page[Comment]
)

// ============================================================================
// Telegram
// ============================================================================

type VerifyRequest struct {
	VerificationCode string `json:"verification_code"`
}

type TelegramLink struct {
	ID     string `json:"id"`
	ChatID int64  `json:"chat_id"`
	User   string `json:"user"`
}

// ============================================================================
// System
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// JWKSResponse is the public verification key set.
type JWKSResponse jwtx.JWKS

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error            string              `json:"error"`
	ErrorDescription string              `json:"error_description,omitempty"`
	Fields           map[string][]string `json:"fields,omitempty"`
}

func String(s string) *string { return &s }
