package http

import (
	"net/http"

	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/pkg/httpx"
	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

type CategoryHandler struct {
	CategoryService *service.CategoryService
}

// HandleCreate handles POST /v1/goals/goal_category/create
//
//	@Summary		Create category
//	@Description	Needs the owner or writer role on the board. The board must not be deleted.
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			request	body		todosdk.CategoryRequest	true	"Board and title"
//	@Success		201		{object}	todosdk.Category
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Failure		403		{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal_category/create [post].
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req todosdk.CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.CategoryService.Create(r.Context(), httpx.UserID(r.Context()), service.CategoryInput{
		Board: req.Board,
		Title: req.Title,
	})
	if err != nil {
		writeServiceError(w, r, err, "create category")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCategory(c))
}

// HandleList handles GET /v1/goals/goal_category/list
//
//	@Summary	List categories
//	@Tags		Categories
//	@Produce	json
//	@Security	BearerAuth
//	@Security	SessionAuth
//	@Param		board		query		string	false	"Board ID"
//	@Param		search		query		string	false	"Case-insensitive title search"
//	@Param		ordering	query		string	false	"title, created, -title or -created"
//	@Param		limit		query		int		false	"Page size (default 50, max 200)"
//	@Param		offset		query		int		false	"Page offset"
//	@Success	200			{object}	todosdk.CategoryPage
//	@Failure	400			{object}	todosdk.ErrorResponse
//	@Failure	401			{object}	todosdk.ErrorResponse
//	@Router		/v1/goals/goal_category/list [get].
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeServiceError(w, r, err, "list categories")
		return
	}

	page, err := h.CategoryService.List(r.Context(), httpx.UserID(r.Context()), r.URL.Query().Get("board"), opts)
	if err != nil {
		writeServiceError(w, r, err, "list categories")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPage(page, toCategory))
}

// HandleGet handles GET /v1/goals/goal_category/{id}
//
//	@Summary	Get category
//	@Tags		Categories
//	@Produce	json
//	@Security	BearerAuth
//	@Security	SessionAuth
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	todosdk.Category
//	@Failure	401	{object}	todosdk.ErrorResponse
//	@Failure	403	{object}	todosdk.ErrorResponse
//	@Failure	404	{object}	todosdk.ErrorResponse
//	@Router		/v1/goals/goal_category/{id} [get].
func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.CategoryService.Get(r.Context(), httpx.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "load category")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCategory(c))
}

// HandleUpdate handles PUT and PATCH /v1/goals/goal_category/{id}
//
//	@Summary		Update category
//	@Description	Owner or writer. The board of a category cannot be changed.
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			id		path		string					true	"Category ID"
//	@Param			request	body		todosdk.CategoryRequest	true	"Category fields"
//	@Success		200		{object}	todosdk.Category
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Failure		403		{object}	todosdk.ErrorResponse
//	@Failure		404		{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal_category/{id} [put]
//	@Router			/v1/goals/goal_category/{id} [patch].
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req todosdk.CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.CategoryService.Update(r.Context(), httpx.UserID(r.Context()), r.PathValue("id"), service.CategoryInput{
		Board: req.Board,
		Title: req.Title,
	}, isPartial(r))
	if err != nil {
		writeServiceError(w, r, err, "update category")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCategory(c))
}

// HandleDelete handles DELETE /v1/goals/goal_category/{id}
//
//	@Summary		Delete category
//	@Description	Owner or writer. Soft-deletes the category and archives its goals.
//	@Tags			Categories
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			id	path	string	true	"Category ID"
//	@Success		204	"Category deleted"
//	@Failure		401	{object}	todosdk.ErrorResponse
//	@Failure		403	{object}	todosdk.ErrorResponse
//	@Failure		404	{object}	todosdk.ErrorResponse
//	@Router			/v1/goals/goal_category/{id} [delete].
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CategoryService.Delete(r.Context(), httpx.UserID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
