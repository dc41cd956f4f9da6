package apiclient

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amartyachowdhury/movie-stack/internal/metadata"
)

type blockingFetcher struct {
	release map[int]chan struct{}
	started chan int
}

func newBlockingFetcher(ids ...int) *blockingFetcher {
	f := &blockingFetcher{release: make(map[int]chan struct{}), started: make(chan int, 10)}
	for _, id := range ids {
		f.release[id] = make(chan struct{})
	}
	return f
}

func (f *blockingFetcher) Movie(ctx context.Context, id int) (*metadata.MovieDetail, error) {
	f.started <- id
	if ch, ok := f.release[id]; ok {
		<-ch
	}
	if id == 999999 {
		return nil, errors.New("not found")
	}
	return &metadata.MovieDetail{ID: id}, nil
}

type deliveries struct {
	mu      sync.Mutex
	results []DetailResult
}

func (d *deliveries) add(r DetailResult) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = append(d.results, r)
}

func (d *deliveries) all() []DetailResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DetailResult(nil), d.results...)
}

func TestDetailLoader_DeliversWhileOpen(t *testing.T) {
	var got deliveries
	l := NewDetailLoader(newBlockingFetcher(), got.add)

	l.Load(context.Background(), 550)
	l.Wait()

	results := got.all()
	require.Len(t, results, 1)
	assert.Equal(t, 550, results[0].Detail.ID)
	assert.NoError(t, results[0].Err)
}

func TestDetailLoader_DeliversErrors(t *testing.T) {
	var got deliveries
	l := NewDetailLoader(newBlockingFetcher(), got.add)

	l.Load(context.Background(), 999999)
	l.Wait()

	results := got.all()
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestDetailLoader_DiscardsAfterClose(t *testing.T) {
	var got deliveries
	f := newBlockingFetcher(550)
	l := NewDetailLoader(f, got.add)

	l.Load(context.Background(), 550)
	<-f.started

	l.Close()
	close(f.release[550])
	l.Wait()

	assert.Empty(t, got.all(), "late result must be discarded")

	l.Load(context.Background(), 13)
	l.Wait()
	assert.Empty(t, got.all(), "closed loader starts nothing")
}

func TestDetailLoader_NewerLoadWins(t *testing.T) {
	var got deliveries
	f := newBlockingFetcher(550, 13)
	l := NewDetailLoader(f, got.add)

	l.Load(context.Background(), 550)
	<-f.started
	l.Load(context.Background(), 13)
	<-f.started

	close(f.release[13])
	close(f.release[550])
	l.Wait()

	results := got.all()
	require.Len(t, results, 1)
	assert.Equal(t, 13, results[0].ID)
}
