package browse

import (
	"context"
	"sync"

	"github.com/mwielgos/kinoteka/internal/external/tmdb"
)

// FetchFunc fetches one result page for a filter state. Service.Page
// satisfies it.
type FetchFunc func(ctx context.Context, params Params) Result

// Pager accumulates result pages for an infinite-scroll listing. It enforces
// a single in-flight fetch: triggers that arrive while one is running are
// dropped, not queued. A filter change is a hard reset; a fetch that was
// issued before the reset and lands after it is discarded via a generation
// tag rather than appended to the new listing.
type Pager struct {
	fetch FetchFunc

	mu         sync.Mutex
	params     Params
	generation uint64
	page       int
	totalPages int
	loading    bool
	results    []tmdb.Title
}

// NewPager creates a pager that loads pages through fetch.
func NewPager(fetch FetchFunc) *Pager {
	return &Pager{fetch: fetch}
}

// Reset replaces the accumulated listing with the first page for a new
// filter state. Any in-flight fetch keeps running but its response will be
// discarded on arrival.
func (p *Pager) Reset(params Params, first Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.params = params
	p.generation++
	p.page = 1
	p.totalPages = first.TotalPages
	p.results = append([]tmdb.Title(nil), first.Titles...)
}

// LoadMore fetches and appends the next page. It returns true when results
// were appended, and false when the trigger was dropped: another fetch in
// flight, no further pages, or a stale response after a reset.
func (p *Pager) LoadMore(ctx context.Context) bool {
	p.mu.Lock()
	if p.loading || !p.hasMoreLocked() {
		p.mu.Unlock()
		return false
	}
	p.loading = true
	generation := p.generation
	params := p.params
	params.Page = p.page + 1
	p.mu.Unlock()

	result := p.fetch(ctx, params)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if generation != p.generation {
		// Filters changed while the fetch was in flight.
		return false
	}

	p.results = append(p.results, result.Titles...)
	p.page++
	p.totalPages = result.TotalPages
	return true
}

// Results returns a copy of the accumulated titles.
func (p *Pager) Results() []tmdb.Title {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]tmdb.Title(nil), p.results...)
}

// Page returns the last successfully loaded page number.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// HasMore reports whether further pages remain.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMoreLocked()
}

// Loading reports whether a fetch is currently in flight.
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *Pager) hasMoreLocked() bool {
	return p.page < p.totalPages
}
