package todosdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder is a test server that remembers the last request it saw.
type recorder struct {
	*httptest.Server
	last *http.Request
	body map[string]any
}

func newRecorder(t *testing.T, status int, response string) *recorder {
	t.Helper()

	rec := &recorder{}
	rec.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.last = r
		rec.body = nil
		_ = json.NewDecoder(r.Body).Decode(&rec.body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(rec.Close)
	return rec
}

func TestClientRequests(t *testing.T) {
	ctx := context.Background()

	t.Run("bearer token and json body", func(t *testing.T) {
		rec := newRecorder(t, http.StatusCreated, `{"id":"b1","title":"Home"}`)
		c := NewClient(rec.URL + "/")
		c.SetAccessToken("tok")

		b, err := c.CreateBoard(ctx, "Home")
		require.NoError(t, err)
		require.Equal(t, "b1", b.ID)

		require.Equal(t, http.MethodPost, rec.last.Method)
		require.Equal(t, "/v1/goals/board/create", rec.last.URL.Path)
		require.Equal(t, "Bearer tok", rec.last.Header.Get("Authorization"))
		require.Equal(t, "application/json", rec.last.Header.Get("Content-Type"))
		require.Equal(t, map[string]any{"title": "Home"}, rec.body)
	})

	t.Run("goal filter encoding", func(t *testing.T) {
		rec := newRecorder(t, http.StatusOK, `{"count":0,"results":[]}`)
		c := NewClient(rec.URL)

		page, err := c.ListGoals(ctx, GoalFilter{
			Categories: []string{"c1", "c2"},
			Statuses:   []string{"to_do", "done"},
			DueDateLTE: "2030-01-01",
		}, ListParams{Ordering: "-due_date", Limit: 10})
		require.NoError(t, err)
		require.Empty(t, page.Results)

		q := rec.last.URL.Query()
		require.Equal(t, "c1,c2", q.Get("category"))
		require.Equal(t, []string{"to_do", "done"}, q["status"])
		require.Equal(t, "2030-01-01", q.Get("due_date__lte"))
		require.Equal(t, "-due_date", q.Get("ordering"))
		require.Equal(t, "10", q.Get("limit"))
		require.Empty(t, q.Get("offset"))
	})

	t.Run("no content", func(t *testing.T) {
		rec := newRecorder(t, http.StatusNoContent, "")
		require.NoError(t, NewClient(rec.URL).DeleteGoal(ctx, "g1"))
		require.Equal(t, http.MethodDelete, rec.last.Method)
		require.Equal(t, "/v1/goals/goal/g1", rec.last.URL.Path)
	})

	t.Run("path escaping", func(t *testing.T) {
		rec := newRecorder(t, http.StatusOK, `{"id":"x"}`)
		_, err := NewClient(rec.URL).GetComment(ctx, "a/b")
		require.NoError(t, err)
		require.Equal(t, "/v1/goals/goal_comment/"+url.PathEscape("a/b"), rec.last.URL.EscapedPath())
	})
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("structured error", func(t *testing.T) {
		rec := newRecorder(t, http.StatusBadRequest,
			`{"error":"validation_error","error_description":"Invalid input.","fields":{"title":["This field is required."]}}`)

		_, err := NewClient(rec.URL).CreateBoard(ctx, "")
		require.True(t, IsValidation(err))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, ErrorCodeValidation, apiErr.Code)
		require.Equal(t, []string{"This field is required."}, apiErr.Fields["title"])
		require.Contains(t, err.Error(), "[title: This field is required.]")
	})

	t.Run("plain text body", func(t *testing.T) {
		rec := newRecorder(t, http.StatusBadGateway, "upstream down\n")

		_, err := NewClient(rec.URL).Livez(ctx)
		require.Equal(t, http.StatusBadGateway, StatusCode(err))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Code)
		require.Equal(t, "upstream down", apiErr.Description)
	})

	t.Run("status helpers", func(t *testing.T) {
		require.True(t, IsUnauthorized(&APIError{StatusCode: http.StatusUnauthorized}))
		require.True(t, IsForbidden(&APIError{StatusCode: http.StatusForbidden}))
		require.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))
		require.Zero(t, StatusCode(context.Canceled))
	})
}
