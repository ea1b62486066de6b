package domain

import "time"

type Comment struct {
	ID        string
	GoalID    string
	User      Author
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
