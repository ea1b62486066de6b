package service

import (
	"testing"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	t.Parallel()

	owner, writer, reader := domain.RoleOwner, domain.RoleWriter, domain.RoleReader

	tests := []struct {
		name     string
		res      Resource
		act      Action
		role     domain.Role
		isAuthor bool
		want     bool
	}{
		{"anyone reads a board", ResourceBoard, ActionRead, reader, false, true},
		{"owner writes a board", ResourceBoard, ActionWrite, owner, false, true},
		{"writer cannot write a board", ResourceBoard, ActionWrite, writer, false, false},
		{"writer cannot delete a board", ResourceBoard, ActionDelete, writer, false, false},
		{"writer creates a category", ResourceCategory, ActionCreate, writer, false, true},
		{"reader cannot create a category", ResourceCategory, ActionCreate, reader, false, false},
		{"writer deletes a category", ResourceCategory, ActionDelete, writer, false, true},
		{"reader cannot write a category", ResourceCategory, ActionWrite, reader, false, false},
		{"reader reads a goal", ResourceGoal, ActionRead, reader, false, true},
		{"reader cannot delete a goal", ResourceGoal, ActionDelete, reader, false, false},
		{"owner writes a goal", ResourceGoal, ActionWrite, owner, false, true},
		{"reader cannot comment", ResourceComment, ActionCreate, reader, true, false},
		{"writer comments", ResourceComment, ActionCreate, writer, false, true},
		{"owner cannot edit others' comments", ResourceComment, ActionWrite, owner, false, false},
		{"reader edits own comment", ResourceComment, ActionWrite, reader, true, true},
		{"author deletes own comment", ResourceComment, ActionDelete, writer, true, true},
		{"no role reads nothing", ResourceBoard, ActionRead, "", false, false},
		{"unknown role reads nothing", ResourceGoal, ActionRead, "admin", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Allowed(tt.res, tt.act, tt.role, tt.isAuthor))
		})
	}
}
