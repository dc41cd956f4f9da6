package apiclient

import (
	"context"
	"sync"

	"github.com/amartyachowdhury/movie-stack/internal/metadata"
)

// MovieFetcher fetches one movie's details.
type MovieFetcher interface {
	Movie(ctx context.Context, id int) (*metadata.MovieDetail, error)
}

// DetailResult is the outcome of one detail load.
type DetailResult struct {
	ID     int
	Detail *metadata.MovieDetail
	Err    error
}

// DetailLoader loads movie details for a view that can go away. Requests are
// never cancelled; a result is delivered only if the loader is still open and
// no newer Load was issued.
type DetailLoader struct {
	fetcher MovieFetcher
	deliver func(DetailResult)

	mu     sync.Mutex
	seq    uint64
	closed bool
	wg     sync.WaitGroup
}

// NewDetailLoader creates an open loader. deliver runs with the loader locked
// and must not call back into it.
func NewDetailLoader(fetcher MovieFetcher, deliver func(DetailResult)) *DetailLoader {
	return &DetailLoader{fetcher: fetcher, deliver: deliver}
}

// Load starts fetching id in the background.
func (l *DetailLoader) Load(ctx context.Context, id int) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.seq++
	seq := l.seq
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()

		detail, err := l.fetcher.Movie(ctx, id)

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.closed || seq != l.seq {
			return
		}
		l.deliver(DetailResult{ID: id, Detail: detail, Err: err})
	}()
}

// Close marks the view gone. Results arriving afterwards are discarded.
func (l *DetailLoader) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

// Wait blocks until every started load has returned.
func (l *DetailLoader) Wait() {
	l.wg.Wait()
}
