package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
)

type Resource int

const (
	ResourceBoard Resource = iota
	ResourceCategory
	ResourceGoal
	ResourceComment
)

type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionWrite
	ActionDelete
)

// Allowed reports whether a participant holding role may perform act on a
// resource of kind res. isAuthor only matters for comments. Create of a
// resource is checked against the parent board, so ActionCreate on a
// comment does not consult isAuthor.
func Allowed(res Resource, act Action, role domain.Role, isAuthor bool) bool {
	if !role.Valid() {
		return false
	}
	if act == ActionRead {
		return true
	}

	switch res {
	case ResourceBoard:
		return role == domain.RoleOwner
	case ResourceCategory, ResourceGoal:
		return role.CanWrite()
	case ResourceComment:
		if act == ActionCreate {
			return role.CanWrite()
		}
		return isAuthor
	}
	return false
}

// authorize resolves actorID's role on boardID and checks it. A missing
// membership is ErrForbidden, never ErrNotFound.
func authorize(ctx context.Context, st store.Store, boardID, actorID string, res Resource, act Action, isAuthor bool) (domain.Role, error) {
	p, err := st.Participants().GetParticipant(ctx, boardID, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrForbidden
		}
		return "", fmt.Errorf("lookup participant: %w", err)
	}
	if !Allowed(res, act, p.Role, isAuthor) {
		return p.Role, ErrForbidden
	}
	return p.Role, nil
}
