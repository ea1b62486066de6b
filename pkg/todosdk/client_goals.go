package todosdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const (
	boardPath    = "/v1/goals/board"
	categoryPath = "/v1/goals/goal_category"
	goalPath     = "/v1/goals/goal"
	commentPath  = "/v1/goals/goal_comment"
)

// GoalFilter narrows ListGoals. Multiple values of one field are ORed, fields
// are ANDed.
type GoalFilter struct {
	Categories []string
	Statuses   []string
	Priorities []string
	DueDateGTE string
	DueDateLTE string
}

func create[T any](ctx context.Context, c *Client, base string, req any) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPost, base+"/create", nil, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *Client, base string, q url.Values) (*Page[T], error) {
	var out Page[T]
	if err := c.do(ctx, http.MethodGet, base+"/list", q, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func get[T any](ctx context.Context, c *Client, base, id string) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, base+"/"+url.PathEscape(id), nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func write[T any](ctx context.Context, c *Client, method, base, id string, req any) (*T, error) {
	var out T
	if err := c.do(ctx, method, base+"/"+url.PathEscape(id), nil, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) remove(ctx context.Context, base, id string) error {
	return c.do(ctx, http.MethodDelete, base+"/"+url.PathEscape(id), nil, nil, nil, http.StatusNoContent)
}

// Boards

func (c *Client) CreateBoard(ctx context.Context, title string) (*Board, error) {
	return create[Board](ctx, c, boardPath, BoardRequest{Title: &title})
}

func (c *Client) ListBoards(ctx context.Context, p ListParams) (*BoardPage, error) {
	return list[Board](ctx, c, boardPath, p.values())
}

func (c *Client) GetBoard(ctx context.Context, id string) (*Board, error) {
	return get[Board](ctx, c, boardPath, id)
}

func (c *Client) UpdateBoard(ctx context.Context, id string, req BoardRequest) (*Board, error) {
	return write[Board](ctx, c, http.MethodPut, boardPath, id, req)
}

func (c *Client) PatchBoard(ctx context.Context, id string, req BoardRequest) (*Board, error) {
	return write[Board](ctx, c, http.MethodPatch, boardPath, id, req)
}

// DeleteBoard soft-deletes the board with its categories and goals.
func (c *Client) DeleteBoard(ctx context.Context, id string) error {
	return c.remove(ctx, boardPath, id)
}

// Categories

func (c *Client) CreateCategory(ctx context.Context, boardID, title string) (*Category, error) {
	return create[Category](ctx, c, categoryPath, CategoryRequest{Board: &boardID, Title: &title})
}

// ListCategories lists live categories, optionally of one board.
func (c *Client) ListCategories(ctx context.Context, boardID string, p ListParams) (*CategoryPage, error) {
	q := p.values()
	if boardID != "" {
		q.Set("board", boardID)
	}
	return list[Category](ctx, c, categoryPath, q)
}

func (c *Client) GetCategory(ctx context.Context, id string) (*Category, error) {
	return get[Category](ctx, c, categoryPath, id)
}

func (c *Client) UpdateCategory(ctx context.Context, id string, req CategoryRequest) (*Category, error) {
	return write[Category](ctx, c, http.MethodPut, categoryPath, id, req)
}

func (c *Client) PatchCategory(ctx context.Context, id string, req CategoryRequest) (*Category, error) {
	return write[Category](ctx, c, http.MethodPatch, categoryPath, id, req)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.remove(ctx, categoryPath, id)
}

// Goals

func (c *Client) CreateGoal(ctx context.Context, req GoalRequest) (*Goal, error) {
	return create[Goal](ctx, c, goalPath, req)
}

func (c *Client) ListGoals(ctx context.Context, f GoalFilter, p ListParams) (*GoalPage, error) {
	q := p.values()
	if len(f.Categories) > 0 {
		q.Set("category", strings.Join(f.Categories, ","))
	}
	for _, s := range f.Statuses {
		q.Add("status", s)
	}
	for _, pr := range f.Priorities {
		q.Add("priority", pr)
	}
	if f.DueDateGTE != "" {
		q.Set("due_date__gte", f.DueDateGTE)
	}
	if f.DueDateLTE != "" {
		q.Set("due_date__lte", f.DueDateLTE)
	}
	return list[Goal](ctx, c, goalPath, q)
}

func (c *Client) GetGoal(ctx context.Context, id string) (*Goal, error) {
	return get[Goal](ctx, c, goalPath, id)
}

func (c *Client) UpdateGoal(ctx context.Context, id string, req GoalRequest) (*Goal, error) {
	return write[Goal](ctx, c, http.MethodPut, goalPath, id, req)
}

func (c *Client) PatchGoal(ctx context.Context, id string, req GoalRequest) (*Goal, error) {
	return write[Goal](ctx, c, http.MethodPatch, goalPath, id, req)
}

// DeleteGoal archives the goal.
func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	return c.remove(ctx, goalPath, id)
}

// Comments

func (c *Client) CreateComment(ctx context.Context, goalID, text string) (*Comment, error) {
	return create[Comment](ctx, c, commentPath, CommentRequest{Goal: &goalID, Text: &text})
}

func (c *Client) ListComments(ctx context.Context, goalID string, p ListParams) (*CommentPage, error) {
	q := p.values()
	if goalID != "" {
		q.Set("goal", goalID)
	}
	return list[Comment](ctx, c, commentPath, q)
}

func (c *Client) GetComment(ctx context.Context, id string) (*Comment, error) {
	return get[Comment](ctx, c, commentPath, id)
}

func (c *Client) UpdateComment(ctx context.Context, id string, req CommentRequest) (*Comment, error) {
	return write[Comment](ctx, c, http.MethodPut, commentPath, id, req)
}

func (c *Client) PatchComment(ctx context.Context, id string, req CommentRequest) (*Comment, error) {
	return write[Comment](ctx, c, http.MethodPatch, commentPath, id, req)
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.remove(ctx, commentPath, id)
}
