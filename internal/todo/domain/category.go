package domain

import "time"

type Category struct {
	ID        string
	BoardID   string
	User      Author // creator
	Title     string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
