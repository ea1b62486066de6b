package service

import (
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/store"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ListOptions are the listing parameters shared by every collection.
type ListOptions struct {
	Ordering string // field, or -field for descending
	Search   string
	Limit    int
	Offset   int
}

// Page is one window of a listing plus the total match count.
type Page[T any] struct {
	Count   int
	Results []T
}

// parseOrdering validates raw against allowed. Empty raw yields def.
func parseOrdering(raw string, allowed []string, def store.Ordering) (store.Ordering, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	o := store.Ordering{Field: raw}
	if strings.HasPrefix(raw, "-") {
		o = store.Ordering{Field: raw[1:], Desc: true}
	}
	if !slices.Contains(allowed, o.Field) {
		return store.Ordering{}, invalid("ordering", "Unknown ordering field "+o.Field+". Allowed: "+strings.Join(allowed, ", ")+".")
	}
	return o, nil
}

func parsePage(o ListOptions, verr *ValidationError) store.Page {
	if o.Limit < 0 {
		verr.Add("limit", "Ensure this value is greater than or equal to 0.")
	}
	if o.Offset < 0 {
		verr.Add("offset", "Ensure this value is greater than or equal to 0.")
	}

	limit := o.Limit
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return store.Page{Limit: limit, Offset: max(o.Offset, 0)}
}

// nowUTC reads the injected clock, falling back to the wall clock.
func nowUTC(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}
