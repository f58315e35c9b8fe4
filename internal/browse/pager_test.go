package browse

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwielgos/kinoteka/internal/models"
)

func pageOf(totalPages int, names ...string) Result {
	return Result{Titles: titleList(names...), TotalPages: totalPages}
}

func TestPager_AccumulatesPages(t *testing.T) {
	pages := map[int]Result{
		2: pageOf(3, "C", "D"),
		3: pageOf(3, "E"),
	}
	fetch := func(ctx context.Context, params Params) Result {
		return pages[params.Page]
	}

	pager := NewPager(fetch)
	pager.Reset(Params{Type: models.MediaTypeAll}, pageOf(3, "A", "B"))

	require.True(t, pager.HasMore())

	require.True(t, pager.LoadMore(context.Background()))
	assert.Equal(t, 2, pager.Page())
	assert.Len(t, pager.Results(), 4)
	assert.True(t, pager.HasMore())

	require.True(t, pager.LoadMore(context.Background()))
	assert.Equal(t, 3, pager.Page())
	assert.Len(t, pager.Results(), 5)
	assert.False(t, pager.HasMore(), "last page reached")

	assert.False(t, pager.LoadMore(context.Background()), "exhausted pager must not fetch")
}

func TestPager_SinglePageHasNoMore(t *testing.T) {
	pager := NewPager(func(ctx context.Context, params Params) Result {
		t.Fatal("fetch must not be called")
		return Result{}
	})
	pager.Reset(Params{}, pageOf(1, "A"))

	assert.False(t, pager.HasMore())
	assert.False(t, pager.LoadMore(context.Background()))
}

func TestPager_SingleInFlightFetch(t *testing.T) {
	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, params Params) Result {
		fetches.Add(1)
		<-release
		return pageOf(5, "X")
	}

	pager := NewPager(fetch)
	pager.Reset(Params{}, pageOf(5, "A"))

	var wg sync.WaitGroup
	results := make([]bool, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = pager.LoadMore(context.Background())
		}(i)
	}

	// Let the goroutines hit the guard before releasing the fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load(), "only one fetch may be in flight")

	appended := 0
	for _, ok := range results {
		if ok {
			appended++
		}
	}
	assert.Equal(t, 1, appended, "exactly one trigger may append")
	assert.Len(t, pager.Results(), 2)
	assert.Equal(t, 2, pager.Page())
}

func TestPager_StaleResponseDiscardedAfterReset(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context, params Params) Result {
		close(started)
		<-release
		return pageOf(9, "STALE")
	}

	pager := NewPager(fetch)
	pager.Reset(Params{Query: "old"}, pageOf(9, "A"))

	done := make(chan bool)
	go func() {
		done <- pager.LoadMore(context.Background())
	}()

	<-started
	pager.Reset(Params{Query: "new"}, pageOf(2, "B"))
	close(release)

	appended := <-done
	assert.False(t, appended, "stale response must be discarded")

	results := pager.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "B", results[0].Name, "listing must reflect the reset state only")
	assert.Equal(t, 1, pager.Page())
	assert.True(t, pager.HasMore(), "new filter state still has pages")
}

func TestPager_ResetReplacesAccumulatedResults(t *testing.T) {
	fetch := func(ctx context.Context, params Params) Result {
		return pageOf(3, "MORE")
	}

	pager := NewPager(fetch)
	pager.Reset(Params{}, pageOf(3, "A", "B"))
	require.True(t, pager.LoadMore(context.Background()))
	require.Len(t, pager.Results(), 3)

	pager.Reset(Params{Query: "fresh"}, pageOf(1, "Z"))

	results := pager.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "Z", results[0].Name)
	assert.Equal(t, 1, pager.Page())
	assert.False(t, pager.HasMore())
}
