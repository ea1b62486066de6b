package http

import (
	"net/http"

	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/pkg/httpx"
	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

type BoardHandler struct {
	BoardService *service.BoardService
}

// HandleCreate handles POST /v1/goals/board/create
//
//	@Summary		Create board
//	@Description	Creates a board owned by the caller.
//	@Tags			Boards
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			request	body		todosdk.BoardRequest	true	"Board title"
//	@Success		201		{object}	todosdk.Board
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/board/create [post].
func (h *BoardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req todosdk.BoardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	title := ""
	if req.Title != nil {
		title = *req.Title
	}

	b, err := h.BoardService.Create(r.Context(), httpx.UserID(r.Context()), title)
	if err != nil {
		writeServiceError(w, r, err, "create board")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toBoardDetail(b))
}

// HandleList handles GET /v1/goals/board/list
//
//	@Summary		List boards
//	@Description	Lists the caller's live boards.
//	@Tags			Boards
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			ordering	query		string	false	"title, created, -title or -created"
//	@Param			search		query		string	false	"Case-insensitive title search"
//	@Param			limit		query		int		false	"Page size (default 50, max 200)"
//	@Param			offset		query		int		false	"Page offset"
//	@Success		200			{object}	todosdk.BoardPage
//	@Failure		400			{object}	todosdk.ErrorResponse
//	@Failure		401			{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/board/list [get].
func (h *BoardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeServiceError(w, r, err, "list boards")
		return
	}

	page, err := h.BoardService.List(r.Context(), httpx.UserID(r.Context()), opts)
	if err != nil {
		writeServiceError(w, r, err, "list boards")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPage(page, toBoard))
}

// HandleGet handles GET /v1/goals/board/{id}
//
//	@Summary	Get board
//	@Tags		Boards
//	@Produce	json
//	@Security	BearerAuth
//	@Security	SessionAuth
//	@Param		id	path		string	true	"Board ID"
//	@Success	200	{object}	todosdk.Board
//	@Failure	401	{object}	todosdk.ErrorResponse
//	@Failure	403	{object}	todosdk.ErrorResponse
//	@Failure	404	{object}	todosdk.ErrorResponse
//	@Router		/v1/goals/board/{id} [get].
func (h *BoardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	b, err := h.BoardService.Get(r.Context(), httpx.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "load board")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBoardDetail(b))
}

// HandleUpdate handles PUT and PATCH /v1/goals/board/{id}
//
//	@Summary		Update board
//	@Description	Owner only. A participants list replaces every non-owner participant.
//	@Tags			Boards
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			id		path		string					true	"Board ID"
//	@Param			request	body		todosdk.BoardRequest	true	"Board fields"
//	@Success		200		{object}	todosdk.Board
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Failure		403		{object}	todosdk.ErrorResponse
//	@Failure		404		{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/board/{id} [put]
//	@Router			/v1/goals/board/{id} [patch].
func (h *BoardHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req todosdk.BoardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b, err := h.BoardService.Update(r.Context(), httpx.UserID(r.Context()), r.PathValue("id"), toBoardInput(req), isPartial(r))
	if err != nil {
		writeServiceError(w, r, err, "update board")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBoardDetail(b))
}

// HandleDelete handles DELETE /v1/goals/board/{id}
//
//	@Summary		Delete board
//	@Description	Owner only. Soft-deletes the board and its categories and archives their goals.
//	@Tags			Boards
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			id	path	string	true	"Board ID"
//	@Success		204	"Board deleted"
//	@Failure		401	{object}	todosdk.ErrorResponse
//	@Failure		403	{object}	todosdk.ErrorResponse
//	@Failure		404	{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/board/{id} [delete].
func (h *BoardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.BoardService.Delete(r.Context(), httpx.UserID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "delete board")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
