// Package store persists declaration drafts between requests.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-eticket/pkg/wizard"
)

var (
	// ErrNotFound is returned when a draft does not exist or has expired.
	ErrNotFound = errors.New("store: draft not found")
	// ErrConflict is returned by Update when the draft was written since it
	// was loaded.
	ErrConflict = errors.New("store: draft changed concurrently")
)

// Draft is an in-progress declaration.
type Draft struct {
	ID        string              `json:"id"`
	Travelers int                 `json:"travelers"`
	Values    map[string]any      `json:"values"`
	Errors    map[string][]string `json:"errors,omitempty"`
	State     wizard.State        `json:"state"`
	Submitted bool                `json:"submitted,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
	// Version counts writes. Update only succeeds against the version the
	// draft was loaded with.
	Version int64 `json:"version"`
}

// NewDraft returns an empty draft with a fresh id.
func NewDraft(travelers int, now time.Time) *Draft {
	if travelers < 1 {
		travelers = 1
	}
	return &Draft{
		ID:        uuid.NewString(),
		Travelers: travelers,
		Values:    map[string]any{},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// ValidID reports whether id has the shape NewDraft produces. Session
// cookies are checked with it before any store lookup.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store persists drafts. Implementations must be safe for concurrent use.
type Store interface {
	// Save writes draft unconditionally, refreshing its expiry.
	Save(ctx context.Context, draft *Draft) error
	// Update writes draft only if the stored version still equals
	// draft.Version, returning ErrConflict otherwise and ErrNotFound when the
	// draft is gone. On success draft.Version is advanced.
	Update(ctx context.Context, draft *Draft) error
	// Load returns the draft or ErrNotFound.
	Load(ctx context.Context, id string) (*Draft, error)
	// Delete removes the draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, id string) error
	// Close releases resources held by the store.
	Close() error
}

// Option configures the stores.
type Option func(*options)

type options struct {
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

// WithTTL sets how long an untouched draft is kept. Zero keeps drafts
// forever.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl >= 0 {
			o.ttl = ttl
		}
	}
}

// WithPrefix sets the key prefix used by the redis store.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		ttl:    24 * time.Hour,
		prefix: "eticket:draft:",
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Open builds the store named by driver ("memory" or "redis").
func Open(driver, redisURL string, opts ...Option) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemory(opts...), nil
	case "redis":
		return NewRedis(redisURL, opts...)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}
