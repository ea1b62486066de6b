package http

import (
	"net/http"

	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/pkg/httpx"
	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

type GoalHandler struct {
	GoalService *service.GoalService
}

// HandleCreate handles POST /v1/goals/goal/create
//
//	@Summary		Create goal
//	@Description	Needs the owner or writer role on the category's board. The category must not be deleted and due_date must not be in the past.
//	@Tags			Goals
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			request	body		todosdk.GoalRequest	true	"Goal fields"
//	@Success		201		{object}	todosdk.Goal
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Failure		403		{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal/create [post].
func (h *GoalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req todosdk.GoalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := h.GoalService.Create(r.Context(), httpx.UserID(r.Context()), toGoalInput(req))
	if err != nil {
		writeServiceError(w, r, err, "create goal")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toGoal(g))
}

// HandleList handles GET /v1/goals/goal/list
//
//	@Summary		List goals
//	@Description	Lists goals that are not archived, in live categories of the caller's boards.
//	@Tags			Goals
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			category		query		string	false	"Category ID; repeat or comma separate for several"
//	@Param			status			query		string	false	"to_do, in_progress or done; repeatable"
//	@Param			priority		query		string	false	"low, medium, high or critical; repeatable"
//	@Param			due_date__gte	query		string	false	"Due on or after (YYYY-MM-DD)"
//	@Param			due_date__lte	query		string	false	"Due on or before (YYYY-MM-DD)"
//	@Param			search			query		string	false	"Case-insensitive title or description search"
//	@Param			ordering		query		string	false	"title, created, due_date or priority, - prefix for descending"
//	@Param			limit			query		int		false	"Page size (default 50, max 200)"
//	@Param			offset			query		int		false	"Page offset"
//	@Success		200				{object}	todosdk.GoalPage
//	@Failure		400				{object}	todosdk.ErrorResponse
//	@Failure		401				{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal/list [get].
func (h *GoalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeServiceError(w, r, err, "list goals")
		return
	}

	page, err := h.GoalService.List(r.Context(), httpx.UserID(r.Context()), goalQuery(r), opts)
	if err != nil {
		writeServiceError(w, r, err, "list goals")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPage(page, toGoal))
}

// HandleGet handles GET /v1/goals/goal/{id}
//
//	@Summary		Get goal
//	@Description	Archived goals stay readable and report status archived.
//	@Tags			Goals
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			id	path		string	true	"Goal ID"
//	@Success		200	{object}	todosdk.Goal
//	@Failure		401	{object}	todosdk.ErrorResponse
//	@Failure		403	{object}	todosdk.ErrorResponse
//	@Failure		404	{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal/{id} [get].
func (h *GoalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	g, err := h.GoalService.Get(r.Context(), httpx.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "load goal")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGoal(g))
}

// HandleUpdate handles PUT and PATCH /v1/goals/goal/{id}
//
//	@Summary		Update goal
//	@Description	Owner or writer. Archived goals cannot be edited. An empty due_date clears it.
//	@Tags			Goals
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			id		path		string				true	"Goal ID"
//	@Param			request	body		todosdk.GoalRequest	true	"Goal fields"
//	@Success		200		{object}	todosdk.Goal
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Failure		403		{object}	todosdk.ErrorResponse
//	@Failure		404		{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal/{id} [put]
//	@Router			/v1/goals/goal/{id} [patch].
func (h *GoalHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req todosdk.GoalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := h.GoalService.Update(r.Context(), httpx.UserID(r.Context()), r.PathValue("id"), toGoalInput(req), isPartial(r))
	if err != nil {
		writeServiceError(w, r, err, "update goal")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGoal(g))
}

// HandleDelete handles DELETE /v1/goals/goal/{id}
//
//	@Summary		Delete goal
//	@Description	Owner or writer. Archives the goal; archiving twice is a no-op.
//	@Tags			Goals
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			id	path	string	true	"Goal ID"
//	@Success		204	"Goal archived"
//	@Failure		401	{object}	todosdk.ErrorResponse
//	@Failure		403	{object}	todosdk.ErrorResponse
//	@Failure		404	{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal/{id} [delete].
func (h *GoalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.GoalService.Delete(r.Context(), httpx.UserID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "delete goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
