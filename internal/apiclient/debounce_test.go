package apiclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amartyachowdhury/movie-stack/internal/metadata"
)

type searchRecorder struct {
	calls   chan string
	release map[string]chan struct{}

	mu      sync.Mutex
	results []SearchResult
}

func newSearchRecorder(blocking ...string) *searchRecorder {
	r := &searchRecorder{
		calls:   make(chan string, 10),
		release: make(map[string]chan struct{}),
	}
	for _, q := range blocking {
		r.release[q] = make(chan struct{})
	}
	return r
}

func (r *searchRecorder) search(ctx context.Context, query string) ([]metadata.Movie, error) {
	r.calls <- query
	if ch, ok := r.release[query]; ok {
		<-ch
	}
	return []metadata.Movie{{Title: query}}, nil
}

func (r *searchRecorder) onResult(res SearchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *searchRecorder) delivered() []SearchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SearchResult(nil), r.results...)
}

func expectCall(t *testing.T, calls <-chan string) string {
	t.Helper()
	select {
	case q := <-calls:
		return q
	case <-time.After(time.Second):
		t.Fatal("expected a search call")
		return ""
	}
}

func expectNoCall(t *testing.T, calls <-chan string) {
	t.Helper()
	select {
	case q := <-calls:
		t.Fatalf("unexpected search call for %q", q)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSearchSession_CollapsesInput(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newSearchRecorder()
	s := NewSearchSession(rec.search, rec.onResult, WithSessionClock(clock))
	t.Cleanup(s.Close)

	s.Input("f")
	clock.Advance(100 * time.Millisecond)
	s.Input("fi")
	clock.Advance(100 * time.Millisecond)
	s.Input("fight")

	clock.Advance(299 * time.Millisecond)
	expectNoCall(t, rec.calls)

	clock.Advance(time.Millisecond)
	assert.Equal(t, "fight", expectCall(t, rec.calls))
	expectNoCall(t, rec.calls)

	require.Eventually(t, func() bool { return len(rec.delivered()) == 1 }, time.Second, 5*time.Millisecond)
	res := rec.delivered()[0]
	assert.Equal(t, "fight", res.Query)
	assert.Equal(t, uint64(1), res.Seq)
	require.Len(t, res.Movies, 1)
}

func TestSearchSession_StaleResultDropped(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newSearchRecorder("alpha", "beta")
	s := NewSearchSession(rec.search, rec.onResult, WithSessionClock(clock))
	t.Cleanup(s.Close)

	s.Input("alpha")
	clock.Advance(DefaultDebounce)
	assert.Equal(t, "alpha", expectCall(t, rec.calls))

	s.Input("beta")
	clock.Advance(DefaultDebounce)
	assert.Equal(t, "beta", expectCall(t, rec.calls))
	assert.True(t, s.isLatest(2))

	close(rec.release["beta"])
	require.Eventually(t, func() bool { return len(rec.delivered()) == 1 }, time.Second, 5*time.Millisecond)

	close(rec.release["alpha"])
	s.Close()

	results := rec.delivered()
	require.Len(t, results, 1)
	assert.Equal(t, "beta", results[0].Query)
}

func TestSearchSession_ReplacedTimerCallbackIgnored(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newSearchRecorder()
	s := NewSearchSession(rec.search, rec.onResult, WithSessionClock(clock))
	t.Cleanup(s.Close)

	s.Input("fi")
	s.mu.Lock()
	firstTimer := s.timerID
	s.mu.Unlock()

	s.Input("fight")

	// the first timer's callback was already running when it got replaced
	s.fire(firstTimer)
	expectNoCall(t, rec.calls)

	clock.Advance(DefaultDebounce - time.Millisecond)
	expectNoCall(t, rec.calls)

	clock.Advance(time.Millisecond)
	assert.Equal(t, "fight", expectCall(t, rec.calls))
}

func TestSearchSession_StaleResultDroppedEvenIfFirst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newSearchRecorder("alpha", "beta")
	s := NewSearchSession(rec.search, rec.onResult, WithSessionClock(clock))

	s.Input("alpha")
	clock.Advance(DefaultDebounce)
	expectCall(t, rec.calls)

	s.Input("beta")
	clock.Advance(DefaultDebounce)
	expectCall(t, rec.calls)

	close(rec.release["alpha"])
	close(rec.release["beta"])
	s.wg.Wait()

	results := rec.delivered()
	require.Len(t, results, 1)
	assert.Equal(t, "beta", results[0].Query)
	s.Close()
}

func TestSearchSession_BlankQueryClears(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newSearchRecorder()
	s := NewSearchSession(rec.search, rec.onResult, WithSessionClock(clock))
	t.Cleanup(s.Close)

	s.Input("matrix")
	s.Input("   ")

	results := rec.delivered()
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Query)
	assert.Nil(t, results[0].Movies)

	clock.Advance(time.Second)
	expectNoCall(t, rec.calls)
}

func TestSearchSession_CloseDropsPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newSearchRecorder()
	s := NewSearchSession(rec.search, rec.onResult, WithSessionClock(clock))

	s.Input("matrix")
	s.Close()
	clock.Advance(time.Second)

	expectNoCall(t, rec.calls)
	assert.Empty(t, rec.delivered())

	s.Input("again")
	clock.Advance(time.Second)
	expectNoCall(t, rec.calls)
}

func TestSearchSession_CustomDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newSearchRecorder()
	s := NewSearchSession(rec.search, rec.onResult, WithSessionClock(clock), WithDebounce(time.Second))
	t.Cleanup(s.Close)

	s.Input("slow")
	clock.Advance(500 * time.Millisecond)
	expectNoCall(t, rec.calls)

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, "slow", expectCall(t, rec.calls))
}

func TestSearchSession_Flush(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newSearchRecorder()
	s := NewSearchSession(rec.search, rec.onResult, WithSessionClock(clock))
	t.Cleanup(s.Close)

	s.Input("godfather")
	s.Flush()

	results := rec.delivered()
	require.Len(t, results, 1)
	assert.Equal(t, "godfather", results[0].Query)

	clock.Advance(time.Second)
	expectCall(t, rec.calls)
	expectNoCall(t, rec.calls)

	s.Flush()
	assert.Len(t, rec.delivered(), 1, "nothing pending")
}
