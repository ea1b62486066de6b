package store

// Page is an offset/limit window. Drivers apply it as given; a zero Limit
// means no window.
type Page struct {
	Limit  int
	Offset int
}

// Ordering is a sort key. Drivers always append the primary key as a
// tie breaker so paging is stable.
type Ordering struct {
	Field string
	Desc  bool
}

type BoardFilter struct {
	Search   string
	Ordering Ordering
	Page     Page
}

type CategoryFilter struct {
	BoardID  string
	Search   string // title
	Ordering Ordering
	Page     Page
}

type GoalFilter struct {
	CategoryIDs []string
	Statuses    []string
	Priorities  []string
	DueDateGTE  string // YYYY-MM-DD, inclusive
	DueDateLTE  string
	Search      string // title or description
	Ordering    Ordering
	Page        Page
}

type CommentFilter struct {
	GoalID   string
	Ordering Ordering
	Page     Page
}

// Sortable fields per listing. The first entry is the default.
var (
	BoardOrderings    = []string{"title", "created"}
	CategoryOrderings = []string{"title", "created"}
	GoalOrderings     = []string{"title", "created", "due_date", "priority"}
	CommentOrderings  = []string{"created", "updated"}
)
