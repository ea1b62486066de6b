package idx

import (
	"crypto/rand"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrInvalid reports a malformed identifier.
var ErrInvalid = errors.New("idx: invalid ulid")

// Generator hands out monotonic ULID strings. Every row in the todolist
// database is keyed by one of these, which gives us creation ordering for
// free when breaking ties in listings.
type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
}

// NewGenerator returns a Generator reading time from now. A nil now uses the
// wall clock in UTC.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Generator{
		now:     now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Next returns a new identifier. Identifiers from the same Generator are
// strictly increasing even within the same millisecond.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

// New returns a new identifier from the process wide generator.
func New() string {
	defaultOnce.Do(func() { defaultGen = NewGenerator(nil) })
	return defaultGen.Next()
}

// Parse trims and validates s, returning the canonical upper case form.
func Parse(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalid
	}

	u, err := ulid.ParseStrict(s)
	if err != nil {
		return "", ErrInvalid
	}
	return u.String(), nil
}

// Valid reports whether s is a well formed identifier.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Time extracts the embedded timestamp, or the zero time for garbage.
func Time(s string) time.Time {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}
