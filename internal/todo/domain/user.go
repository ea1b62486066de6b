package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string // optional, unique when set
	FirstName    string
	LastName     string
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Author is the public part of a User embedded in categories, goals and
// comments.
type Author struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
}

func (u User) Author() Author {
	return Author{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Session is a browser login. Only the fingerprint of the cookie is stored.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
