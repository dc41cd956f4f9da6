package apiclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/amartyachowdhury/movie-stack/internal/metadata"
)

// DefaultDebounce is the quiet period before a search fires.
const DefaultDebounce = 300 * time.Millisecond

// SearchFunc runs one search.
type SearchFunc func(ctx context.Context, query string) ([]metadata.Movie, error)

// SearchResult is delivered for the latest search only.
type SearchResult struct {
	Seq    uint64
	Query  string
	Movies []metadata.Movie
	Err    error
}

// SearchSession collapses rapid query input into a single search fired after
// a quiet period. Every fired search takes the next sequence number and its
// result is delivered only if no newer search was issued meanwhile. Stale
// searches are not aborted; their results are dropped.
type SearchSession struct {
	search   SearchFunc
	onResult func(SearchResult)
	clock    clockwork.Clock
	delay    time.Duration
	ctx      context.Context

	mu      sync.Mutex
	timer   clockwork.Timer
	timerID uint64
	pending string
	seq     uint64
	closed  bool

	// deliverMu orders the sequence check with the callback so a stale result
	// can never be applied after a newer one.
	deliverMu sync.Mutex
	wg        sync.WaitGroup
}

// SessionOption configures a SearchSession.
type SessionOption func(*SearchSession)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *SearchSession) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithSessionClock sets the clock driving the debounce timer.
func WithSessionClock(clock clockwork.Clock) SessionOption {
	return func(s *SearchSession) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSessionContext sets the context passed to searches.
func WithSessionContext(ctx context.Context) SessionOption {
	return func(s *SearchSession) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// NewSearchSession creates a session. onResult runs on a background goroutine,
// or inside Input for a blank query, and must not call back into the session.
func NewSearchSession(search SearchFunc, onResult func(SearchResult), opts ...SessionOption) *SearchSession {
	s := &SearchSession{
		search:   search,
		onResult: onResult,
		clock:    clockwork.NewRealClock(),
		delay:    DefaultDebounce,
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchWith adapts a Client into a SearchFunc for the first result page.
func SearchWith(c *Client) SearchFunc {
	return func(ctx context.Context, query string) ([]metadata.Movie, error) {
		page, err := c.SearchMovies(ctx, query, 1)
		if err != nil {
			return nil, err
		}
		return page.Items, nil
	}
}

// Input records a new query and restarts the quiet period. A blank query
// cancels the pending search, invalidates in-flight ones and delivers an
// empty result immediately.
func (s *SearchSession) Input(query string) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if query == "" {
		s.pending = ""
		s.seq++
		seq := s.seq
		s.mu.Unlock()
		s.deliver(SearchResult{Seq: seq})
		return
	}

	s.pending = query
	s.timerID++
	id := s.timerID
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(id) })
	s.mu.Unlock()
}

// fire runs the pending search if timerID still names the latest timer. A
// callback from a timer that was replaced after it started running is a no-op.
func (s *SearchSession) fire(timerID uint64) {
	s.mu.Lock()
	if s.closed || s.pending == "" || timerID != s.timerID {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq, query := s.seq, s.pending
	s.pending = ""
	s.timer = nil
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()

	movies, err := s.search(s.ctx, query)
	s.deliver(SearchResult{Seq: seq, Query: query, Movies: movies, Err: err})
}

func (s *SearchSession) deliver(result SearchResult) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	if !s.isLatest(result.Seq) {
		return
	}
	s.onResult(result)
}

func (s *SearchSession) isLatest(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && seq == s.seq
}

// Flush fires the pending search without waiting for the quiet period and
// waits for in-flight searches to return.
func (s *SearchSession) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	id := s.timerID
	s.mu.Unlock()

	s.fire(id)
	s.wg.Wait()
}

// Close stops the pending timer and drops every later result. It waits for
// in-flight searches to return.
func (s *SearchSession) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}
