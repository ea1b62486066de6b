package domain

import "time"

type Board struct {
	ID        string
	Title     string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role is a participant's standing on a board.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleWriter Role = "writer"
	RoleReader Role = "reader"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleWriter, RoleReader:
		return true
	}
	return false
}

// CanWrite reports whether r may create or edit categories and goals.
func (r Role) CanWrite() bool {
	return r == RoleOwner || r == RoleWriter
}

type Participant struct {
	ID        string
	BoardID   string
	UserID    string
	Username  string // joined from users for display
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
