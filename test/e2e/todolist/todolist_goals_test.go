package todolist_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

// TestSharedBoardWorkflow walks a board through sharing, goal tracking and
// the delete cascade with an owner, a writer and a reader.
func TestSharedBoardWorkflow(t *testing.T) {
	baseURL, cleanup := setupTodolistContainer(t)
	defer cleanup()
	runSharedBoardWorkflow(t, baseURL)
}

func runSharedBoardWorkflow(t *testing.T, baseURL string) {
	ctx := t.Context()

	owner, _ := signUpAndLogin(t, baseURL, "owner")
	writer, _ := signUpAndLogin(t, baseURL, "writer")
	reader, _ := signUpAndLogin(t, baseURL, "reader")
	outsider, _ := signUpAndLogin(t, baseURL, "outsider")

	board, err := owner.CreateBoard(ctx, "Renovation")
	require.NoError(t, err)

	board, err = owner.PatchBoard(ctx, board.ID, todosdk.BoardRequest{
		Participants: &[]todosdk.ParticipantRequest{
			{User: "writer", Role: "writer"},
			{User: "reader", Role: "reader"},
		},
	})
	require.NoError(t, err)
	require.Len(t, board.Participants, 3)

	kitchen, err := writer.CreateCategory(ctx, board.ID, "Kitchen")
	require.NoError(t, err)
	garden, err := owner.CreateCategory(ctx, board.ID, "Garden")
	require.NoError(t, err)

	tiles, err := writer.CreateGoal(ctx, todosdk.GoalRequest{
		Category: &kitchen.ID,
		Title:    todosdk.String("Pick tiles"),
		Priority: todosdk.String("high"),
		DueDate:  todosdk.String("2999-06-01"),
	})
	require.NoError(t, err)
	require.Equal(t, "to_do", tiles.Status)

	hedge, err := owner.CreateGoal(ctx, todosdk.GoalRequest{
		Category: &garden.ID,
		Title:    todosdk.String("Trim hedge"),
	})
	require.NoError(t, err)
	require.Equal(t, "medium", hedge.Priority)

	t.Run("reader sees but cannot change", func(t *testing.T) {
		g, err := reader.GetGoal(ctx, tiles.ID)
		require.NoError(t, err)
		require.Equal(t, "writer", g.User.Username)

		_, err = reader.PatchGoal(ctx, tiles.ID, todosdk.GoalRequest{Status: todosdk.String("done")})
		assertStatus(t, err, http.StatusForbidden, "Reader updating a goal")

		_, err = reader.CreateComment(ctx, tiles.ID, "Looks good")
		assertStatus(t, err, http.StatusForbidden, "Reader commenting")
	})

	t.Run("outsider is shut out", func(t *testing.T) {
		_, err := outsider.GetBoard(ctx, board.ID)
		assertStatus(t, err, http.StatusForbidden, "Outsider reading the board")

		page, err := outsider.ListBoards(ctx, todosdk.ListParams{})
		require.NoError(t, err)
		require.Zero(t, page.Count)
	})

	t.Run("filters", func(t *testing.T) {
		page, err := reader.ListGoals(ctx, todosdk.GoalFilter{
			Categories: []string{kitchen.ID, garden.ID},
			Priorities: []string{"high"},
		}, todosdk.ListParams{})
		require.NoError(t, err)
		require.Equal(t, 1, page.Count)
		require.Equal(t, tiles.ID, page.Results[0].ID)

		page, err = reader.ListGoals(ctx, todosdk.GoalFilter{
			Categories: []string{kitchen.ID, garden.ID},
		}, todosdk.ListParams{Search: "hedge"})
		require.NoError(t, err)
		require.Equal(t, 1, page.Count)
		require.Equal(t, hedge.ID, page.Results[0].ID)
	})

	t.Run("progress and comments", func(t *testing.T) {
		g, err := writer.PatchGoal(ctx, tiles.ID, todosdk.GoalRequest{Status: todosdk.String("in_progress")})
		require.NoError(t, err)
		require.Equal(t, "in_progress", g.Status)

		_, err = writer.PatchGoal(ctx, tiles.ID, todosdk.GoalRequest{Status: todosdk.String("archived")})
		assertStatus(t, err, http.StatusBadRequest, "Archiving through an update")

		c, err := owner.CreateComment(ctx, tiles.ID, "Go with the blue ones")
		require.NoError(t, err)

		comments, err := reader.ListComments(ctx, tiles.ID, todosdk.ListParams{})
		require.NoError(t, err)
		require.Equal(t, 1, comments.Count)
		require.Equal(t, c.ID, comments.Results[0].ID)

		_, err = writer.PatchComment(ctx, c.ID, todosdk.CommentRequest{Text: todosdk.String("edited")})
		assertStatus(t, err, http.StatusForbidden, "Editing another user's comment")
	})

	t.Run("category delete archives its goals", func(t *testing.T) {
		require.NoError(t, owner.DeleteCategory(ctx, garden.ID))

		g, err := owner.GetGoal(ctx, hedge.ID)
		require.NoError(t, err)
		require.Equal(t, "archived", g.Status)

		_, err = owner.CreateGoal(ctx, todosdk.GoalRequest{Category: &garden.ID, Title: todosdk.String("Mow lawn")})
		assertStatus(t, err, http.StatusBadRequest, "Goal in a deleted category")
	})

	t.Run("board delete cascades", func(t *testing.T) {
		assertStatus(t, writer.DeleteBoard(ctx, board.ID), http.StatusForbidden, "Writer deleting the board")

		require.NoError(t, owner.DeleteBoard(ctx, board.ID))

		_, err := owner.GetBoard(ctx, board.ID)
		assertStatus(t, err, http.StatusNotFound, "Deleted board")

		g, err := owner.GetGoal(ctx, tiles.ID)
		require.NoError(t, err)
		require.Equal(t, "archived", g.Status)
	})
}
