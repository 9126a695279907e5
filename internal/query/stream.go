// Package query holds the client-side view of paged listings and detail
// lookups: merged pages for a listing stream plus freshness tracking.
package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/cinelist/internal/cache"
	"github.com/Clark-Hu/cinelist/internal/domain"
)

// PageSource yields one listing page.
type PageSource interface {
	GetPage(ctx context.Context, page int) (domain.Page, error)
}

// State is the lifecycle position of a Stream.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateReady
	StateExhausted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options tunes freshness for a Stream or DetailQuery.
type Options struct {
	FreshFor  time.Duration
	RetainFor time.Duration
	Logger    zerolog.Logger
	Now       func() time.Time
}

func (o Options) withDefaults() Options {
	if o.FreshFor <= 0 {
		o.FreshFor = cache.DefaultFreshFor
	}
	if o.RetainFor < o.FreshFor {
		o.RetainFor = cache.DefaultRetainFor
		if o.RetainFor < o.FreshFor {
			o.RetainFor = o.FreshFor
		}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Stream accumulates the pages of one listing in increasing page order.
// At most one fetch is in flight; pages never overlap, so the merged list is
// deduplicated by construction.
type Stream struct {
	source PageSource
	opts   Options

	mu        sync.Mutex
	pages     []domain.Page
	updatedAt time.Time
	inFlight  bool
	enabled   bool
	err       error
}

// NewStream builds an enabled, idle stream over source.
func NewStream(source PageSource, opts Options) *Stream {
	return &Stream{source: source, opts: opts.withDefaults(), enabled: true}
}

// Seed hydrates an empty stream with an already fetched first page.
func (s *Stream) Seed(page domain.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pages) > 0 || s.inFlight {
		return
	}
	s.pages = []domain.Page{page}
	s.updatedAt = s.opts.Now()
	s.err = nil
}

// Start makes the stream usable. Within the freshness window nothing is
// fetched. Past freshness but within retention the cached pages stay visible
// and a background refresh is started. Otherwise page 1 is fetched.
func (s *Stream) Start(ctx context.Context) error {
	s.mu.Lock()
	if !s.enabled || s.inFlight {
		s.mu.Unlock()
		return nil
	}
	age := s.opts.Now().Sub(s.updatedAt)
	switch {
	case len(s.pages) > 0 && age < s.opts.FreshFor:
		s.mu.Unlock()
		return nil
	case len(s.pages) > 0 && age < s.opts.RetainFor:
		s.inFlight = true
		s.mu.Unlock()
		go s.refresh(context.WithoutCancel(ctx))
		return nil
	}
	s.pages = nil
	s.mu.Unlock()

	_, err := s.FetchNext(ctx)
	return err
}

// FetchNext fetches the page after the last loaded one. It reports whether a
// page was applied. The call is a no-op when the stream is disabled, a fetch
// is already in flight, or there is nothing more to load.
func (s *Stream) FetchNext(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if !s.enabled || s.inFlight || !s.hasMoreLocked() {
		s.mu.Unlock()
		return false, nil
	}
	next := s.nextPageLocked()
	s.inFlight = true
	s.mu.Unlock()

	page, err := s.source.GetPage(ctx, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.err = err
		s.opts.Logger.Warn().Err(err).Int("page", next).Msg("query: page fetch failed")
		return false, err
	}
	s.pages = append(s.pages, page)
	s.updatedAt = s.opts.Now()
	s.err = nil
	return true, nil
}

// Refresh refetches every loaded page in order and swaps them in only when
// all succeed. It is a no-op while the stream is disabled or another fetch is
// in flight.
func (s *Stream) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.enabled || s.inFlight || len(s.pages) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.inFlight = true
	s.mu.Unlock()
	return s.refresh(ctx)
}

// refresh must be entered with inFlight already claimed.
func (s *Stream) refresh(ctx context.Context) error {
	s.mu.Lock()
	count := len(s.pages)
	s.mu.Unlock()

	fresh := make([]domain.Page, 0, count)
	var err error
	for n := domain.MinPage; n < domain.MinPage+count; n++ {
		var page domain.Page
		page, err = s.source.GetPage(ctx, n)
		if err != nil {
			break
		}
		fresh = append(fresh, page)
		if !page.HasNextPage {
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.err = err
		s.opts.Logger.Warn().Err(err).Int("pages", count).Msg("query: background refresh failed, keeping cached pages")
		return err
	}
	s.pages = fresh
	s.updatedAt = s.opts.Now()
	s.err = nil
	return nil
}

// SetEnabled toggles whether new fetches may start. A fetch already in
// flight still lands when it completes.
func (s *Stream) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
}

// Enabled reports whether new fetches may start.
func (s *Stream) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Movies returns the merged list across loaded pages.
func (s *Stream) Movies() []domain.MovieSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int
	for _, p := range s.pages {
		total += len(p.Movies)
	}
	out := make([]domain.MovieSummary, 0, total)
	for _, p := range s.pages {
		out = append(out, p.Movies...)
	}
	return out
}

// Filter returns loaded movies whose title contains q, ignoring case and
// surrounding whitespace. An empty q returns every loaded movie.
func (s *Stream) Filter(q string) []domain.MovieSummary {
	all := s.Movies()
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return all
	}
	out := make([]domain.MovieSummary, 0, len(all))
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			out = append(out, m)
		}
	}
	return out
}

// Pages returns a copy of the loaded pages.
func (s *Stream) Pages() []domain.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Page(nil), s.pages...)
}

// HasMore reports whether another page can be fetched.
func (s *Stream) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMoreLocked()
}

// Err returns the error of the most recent failed fetch, cleared by the next
// success.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Fresh reports whether the loaded pages are within the freshness window.
func (s *Stream) Fresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages) > 0 && s.opts.Now().Sub(s.updatedAt) < s.opts.FreshFor
}

// State reports the lifecycle position.
func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.inFlight:
		return StateFetching
	case s.err != nil:
		return StateFailed
	case len(s.pages) == 0:
		return StateIdle
	case !s.hasMoreLocked():
		return StateExhausted
	default:
		return StateReady
	}
}

func (s *Stream) hasMoreLocked() bool {
	if len(s.pages) == 0 {
		return true
	}
	return s.pages[len(s.pages)-1].HasNextPage
}

func (s *Stream) nextPageLocked() int {
	if len(s.pages) == 0 {
		return domain.MinPage
	}
	last := s.pages[len(s.pages)-1]
	if last.NextPage != nil {
		return *last.NextPage
	}
	return last.Number + 1
}
