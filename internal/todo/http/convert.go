package http

import (
	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

func toProfile(u domain.User) todosdk.Profile {
	return authorProfile(u.Author())
}

func authorProfile(a domain.Author) todosdk.Profile {
	return todosdk.Profile{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

func toBoard(b domain.Board) todosdk.Board {
	return todosdk.Board{
		ID:        b.ID,
		Title:     b.Title,
		IsDeleted: b.IsDeleted,
		Created:   b.CreatedAt,
		Updated:   b.UpdatedAt,
	}
}

func toBoardDetail(d service.BoardDetail) todosdk.Board {
	out := toBoard(d.Board)
	out.Participants = make([]todosdk.Participant, len(d.Participants))
	for i, p := range d.Participants {
		out.Participants[i] = todosdk.Participant{
			ID:      p.ID,
			User:    p.Username,
			Role:    string(p.Role),
			Created: p.CreatedAt,
			Updated: p.UpdatedAt,
		}
	}
	return out
}

func toCategory(c domain.Category) todosdk.Category {
	return todosdk.Category{
		ID:        c.ID,
		Board:     c.BoardID,
		User:      authorProfile(c.User),
		Title:     c.Title,
		IsDeleted: c.IsDeleted,
		Created:   c.CreatedAt,
		Updated:   c.UpdatedAt,
	}
}

func toGoal(g domain.Goal) todosdk.Goal {
	return todosdk.Goal{
		ID:          g.ID,
		Category:    g.CategoryID,
		User:        authorProfile(g.User),
		Title:       g.Title,
		Description: g.Description,
		DueDate:     g.DueDate,
		Status:      string(g.Status),
		Priority:    string(g.Priority),
		Created:     g.CreatedAt,
		Updated:     g.UpdatedAt,
	}
}

func toComment(c domain.Comment) todosdk.Comment {
	return todosdk.Comment{
		ID:      c.ID,
		Goal:    c.GoalID,
		User:    authorProfile(c.User),
		Text:    c.Text,
		Created: c.CreatedAt,
		Updated: c.UpdatedAt,
	}
}

func toLink(l domain.TelegramLink) todosdk.TelegramLink {
	out := todosdk.TelegramLink{ID: l.ID, ChatID: l.ChatID}
	if l.UserID != nil {
		out.User = *l.UserID
	}
	return out
}

// toPage converts a service page; Results is never null on the wire.
func toPage[T, U any](p service.Page[T], conv func(T) U) todosdk.Page[U] {
	out := todosdk.Page[U]{Count: p.Count, Results: make([]U, len(p.Results))}
	for i, v := range p.Results {
		out.Results[i] = conv(v)
	}
	return out
}

func toGoalInput(req todosdk.GoalRequest) service.GoalInput {
	in := service.GoalInput{
		User:        req.User,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		st := domain.GoalStatus(*req.Status)
		in.Status = &st
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		in.Priority = &p
	}
	return in
}

func toBoardInput(req todosdk.BoardRequest) service.BoardInput {
	in := service.BoardInput{Title: req.Title}
	if req.Participants != nil {
		ps := make([]service.ParticipantInput, len(*req.Participants))
		for i, p := range *req.Participants {
			ps[i] = service.ParticipantInput{Username: p.User, Role: domain.Role(p.Role)}
		}
		in.Participants = &ps
	}
	return in
}
