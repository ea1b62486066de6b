package http

import (
	"net/http"

	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/pkg/httpx"
	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

type CommentHandler struct {
	CommentService *service.CommentService
}

// HandleCreate handles POST /v1/goals/goal_comment/create
//
//	@Summary		Create comment
//	@Description	Needs the owner or writer role on the goal's board. The goal must not be archived.
//	@Tags			Comments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			request	body		todosdk.CommentRequest	true	"Goal and text"
//	@Success		201		{object}	todosdk.Comment
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Failure		403		{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal_comment/create [post].
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req todosdk.CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.CommentService.Create(r.Context(), httpx.UserID(r.Context()), service.CommentInput{
		User: req.User,
		Goal: req.Goal,
		Text: req.Text,
	})
	if err != nil {
		writeServiceError(w, r, err, "create comment")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toComment(c))
}

// HandleList handles GET /v1/goals/goal_comment/list
//
//	@Summary	List comments
//	@Tags		Comments
//	@Produce	json
//	@Security	BearerAuth
//	@Security	SessionAuth
//	@Param		goal		query		string	false	"Goal ID"
//	@Param		ordering	query		string	false	"-created (default), created, updated or -updated"
//	@Param		limit		query		int		false	"Page size (default 50, max 200)"
//	@Param		offset		query		int		false	"Page offset"
//	@Success	200			{object}	todosdk.CommentPage
//	@Failure	400			{object}	todosdk.ErrorResponse
//	@Failure	401			{object}	todosdk.ErrorResponse
//	@Router		/v1/goals/goal_comment/list [get].
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeServiceError(w, r, err, "list comments")
		return
	}

	page, err := h.CommentService.List(r.Context(), httpx.UserID(r.Context()), r.URL.Query().Get("goal"), opts)
	if err != nil {
		writeServiceError(w, r, err, "list comments")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPage(page, toComment))
}

// HandleGet handles GET /v1/goals/goal_comment/{id}
//
//	@Summary	Get comment
//	@Tags		Comments
//	@Produce	json
//	@Security	BearerAuth
//	@Security	SessionAuth
//	@Param		id	path		string	true	"Comment ID"
//	@Success	200	{object}	todosdk.Comment
//	@Failure	401	{object}	todosdk.ErrorResponse
//	@Failure	403	{object}	todosdk.ErrorResponse
//	@Failure	404	{object}	todosdk.ErrorResponse
//	@Router		/v1/goals/goal_comment/{id} [get].
func (h *CommentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.CommentService.Get(r.Context(), httpx.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "load comment")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toComment(c))
}

// HandleUpdate handles PUT and PATCH /v1/goals/goal_comment/{id}
//
//	@Summary		Update comment
//	@Description	Author only, and not on an archived goal.
//	@Tags			Comments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			id		path		string					true	"Comment ID"
//	@Param			request	body		todosdk.CommentRequest	true	"Comment text"
//	@Success		200		{object}	todosdk.Comment
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Failure		403		{object}	todosdk.ErrorResponse
//	@Failure		404		{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal_comment/{id} [put]
//	@Router			/v1/goals/goal_comment/{id} [patch].
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req todosdk.CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.CommentService.Update(r.Context(), httpx.UserID(r.Context()), r.PathValue("id"), service.CommentInput{
		User: req.User,
		Goal: req.Goal,
		Text: req.Text,
	}, isPartial(r))
	if err != nil {
		writeServiceError(w, r, err, "update comment")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toComment(c))
}

// HandleDelete handles DELETE /v1/goals/goal_comment/{id}
//
//	@Summary		Delete comment
//	@Description	Author only. Comments are removed permanently.
//	@Tags			Comments
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			id	path	string	true	"Comment ID"
//	@Success		204	"Comment deleted"
//	@Failure		400	{object}	todosdk.ErrorResponse	"goal is archived"
//	@Failure		401	{object}	todosdk.ErrorResponse
//	@Failure		403	{object}	todosdk.ErrorResponse
//	@Failure		404	{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal_comment/{id} [delete].
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CommentService.Delete(r.Context(), httpx.UserID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "delete comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
