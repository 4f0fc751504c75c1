// Package scroll is a generic incremental-loading controller. It owns
// the accumulated result list, the page cursor and the loading flags,
// and exposes a sentinel handle that loads the next page when the host
// reports the sentinel element visible.
package scroll

import (
	"context"
	"sync"
)

// Page is one fetched slice of results.
type Page[T any] struct {
	Items   []T
	HasNext bool
}

// FetchFunc retrieves one page, 1-based. Implementations convert every
// failure into an error return; nothing may panic through the engine.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

type Scroller[T any] struct {
	mu    sync.Mutex
	fetch FetchFunc[T]

	items       []T
	page        int
	hasNext     bool
	loading     bool
	loadingMore bool
	err         string

	// inFlight drops overlapping fetches: a sentinel trigger racing a
	// refresh must not both mutate the list. generation additionally
	// discards a response that resolves after a newer refresh started.
	inFlight   bool
	generation uint64
	closed     bool
}

func New[T any](fetch FetchFunc[T]) *Scroller[T] {
	return &Scroller[T]{fetch: fetch, page: 1, hasNext: true}
}

func (s *Scroller[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

func (s *Scroller[T]) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Scroller[T]) HasNextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasNext
}

func (s *Scroller[T]) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Scroller[T]) IsLoadingMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingMore
}

func (s *Scroller[T]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Refresh discards the accumulated list upfront, resets the cursor to
// page one and fetches a replacement first page. A refresh arriving
// while another fetch is in flight is dropped silently.
func (s *Scroller[T]) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.inFlight || s.closed {
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.generation++
	gen := s.generation
	s.items = nil
	s.page = 1
	s.hasNext = true
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	page, err := s.fetch(ctx, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.loading = false
	if gen != s.generation {
		return
	}
	if err != nil {
		s.err = err.Error()
		return
	}
	s.items = page.Items
	s.hasNext = page.HasNext
}

// LoadMore appends the next page. It is a no-op while loading or after
// the last page. A failed load keeps the accumulated list intact.
func (s *Scroller[T]) LoadMore(ctx context.Context) {
	s.mu.Lock()
	if s.inFlight || s.closed || !s.hasNext {
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	gen := s.generation
	next := s.page + 1
	s.loadingMore = true
	s.mu.Unlock()

	page, err := s.fetch(ctx, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.loadingMore = false
	if gen != s.generation {
		return
	}
	if err != nil {
		s.err = err.Error()
		return
	}
	s.items = append(s.items, page.Items...)
	s.page = next
	s.hasNext = page.HasNext
}

// Sentinel returns the handle the host attaches to its viewport
// sentinel. Each invocation means "the sentinel became visible" and
// loads the next page when one is believed to exist.
func (s *Scroller[T]) Sentinel() func(context.Context) {
	return s.SentinelVisible
}

func (s *Scroller[T]) SentinelVisible(ctx context.Context) {
	s.mu.Lock()
	ready := !s.inFlight && !s.closed && s.hasNext && s.page >= 1
	s.mu.Unlock()
	if ready {
		s.LoadMore(ctx)
	}
}

// Close releases the sentinel: subsequent triggers and fetch calls
// are ignored.
func (s *Scroller[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
}
