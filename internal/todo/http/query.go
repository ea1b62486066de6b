package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/service"
)

// listOptions reads ordering, search, limit and offset. Range checks on
// limit/offset are left to the services.
func listOptions(r *http.Request) (service.ListOptions, error) {
	q := r.URL.Query()
	verr := &service.ValidationError{}

	opts := service.ListOptions{
		Ordering: q.Get("ordering"),
		Search:   strings.TrimSpace(q.Get("search")),
		Limit:    intParam(q, "limit", verr),
		Offset:   intParam(q, "offset", verr),
	}
	return opts, verr.Err()
}

func intParam(q url.Values, key string, verr *service.ValidationError) int {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(key, "A valid integer is required.")
		return 0
	}
	return n
}

// multiParam collects a parameter given repeatedly and/or as a comma list.
func multiParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func goalQuery(r *http.Request) service.GoalQuery {
	q := r.URL.Query()
	gq := service.GoalQuery{
		CategoryIDs: multiParam(q, "category"),
		DueDateGTE:  strings.TrimSpace(q.Get("due_date__gte")),
		DueDateLTE:  strings.TrimSpace(q.Get("due_date__lte")),
	}
	for _, s := range multiParam(q, "status") {
		gq.Statuses = append(gq.Statuses, domain.GoalStatus(s))
	}
	for _, p := range multiParam(q, "priority") {
		gq.Priorities = append(gq.Priorities, domain.Priority(p))
	}
	return gq
}
