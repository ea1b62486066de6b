package domain

import "time"

// TelegramLink ties a Telegram chat to an account once the chat's
// verification code has been confirmed.
type TelegramLink struct {
	ID               string
	ChatID           int64
	UserID           *string
	VerificationCode *string
	CodeExpiresAt    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (l TelegramLink) Verified() bool { return l.UserID != nil }

// InboundMessage is a text message received from a chat. ChatID is zero
// for updates that carry no message.
type InboundMessage struct {
	UpdateID int
	ChatID   int64
	Username string
	Text     string
}
