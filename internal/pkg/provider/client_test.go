package provider

import (
	"ReaView/internal/api/config"
	"ReaView/internal/model"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.ProviderConfig{
		TMDBBaseURL:      srv.URL + "/tmdb",
		TMDBImageURL:     "https://img.example/w500",
		TMDBApiKey:       "k",
		GoogleBooksURL:   srv.URL + "/books",
		OpenLibraryURL:   srv.URL + "/ol",
		OpenLibraryCover: "https://covers.example/b/id",
		Timeout:          2,
		FailureThreshold: 2,
		BreakerTimeout:   60,
	}
	return NewClient(cfg)
}

func TestLookupMovieByID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tmdb/movie/438631", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(`{"id":438631,"title":"Dune","poster_path":"/dune.jpg","vote_average":7.8}`))
	}))

	md, err := c.Lookup(context.Background(), Query{ItemType: model.ItemTypeMovie, ExternalID: "438631", ExternalSource: model.SourceTMDB})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/w500/dune.jpg", md.PosterURL)
	assert.Equal(t, "438631", md.ExternalID)
	assert.InDelta(t, 7.8, md.Rating, 1e-9)
}

func TestLookupMovieSearchFallback(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tmdb/movie/1":
			w.WriteHeader(http.StatusNotFound)
		case "/tmdb/search/movie":
			assert.Equal(t, "Dune", r.URL.Query().Get("query"))
			_, _ = w.Write([]byte(`{"results":[{"id":2,"title":"Dune","poster_path":"/p.jpg"}]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	md, err := c.Lookup(context.Background(), Query{ItemType: model.ItemTypeMovie, ExternalID: "1", Title: "Dune"})
	require.NoError(t, err)
	assert.Equal(t, "2", md.ExternalID)
	assert.Equal(t, "https://img.example/w500/p.jpg", md.PosterURL)
}

func TestLookupBookFallsBackToOpenLibrary(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/books/volumes":
			_, _ = w.Write([]byte(`{"items":[{"id":"x","volumeInfo":{"title":"Dune"}}]}`))
		case "/ol/search.json":
			_, _ = w.Write([]byte(`{"docs":[{"title":"Dune","key":"/works/OL1W"},{"title":"Dune","key":"/works/OL2W","cover_i":42,"ratings_average":4.1}]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	md, err := c.Lookup(context.Background(), Query{ItemType: model.ItemTypeBook, Title: "Dune"})
	require.NoError(t, err)
	assert.Equal(t, "https://covers.example/b/id/42-L.jpg", md.PosterURL)
	assert.Equal(t, model.SourceOpenLibrary, md.ExternalSource)
	assert.Equal(t, "/works/OL2W", md.ExternalID)
	assert.InDelta(t, 8.2, md.Rating, 1e-9)
}

func TestLookupGoogleBooksThumbnail(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/volumes/vol1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"vol1","volumeInfo":{"title":"Dune","averageRating":4.5,"imageLinks":{"thumbnail":"http://books.example/t.jpg"}}}`))
	}))

	md, err := c.Lookup(context.Background(), Query{ExternalID: "vol1", ExternalSource: model.SourceGoogleBooks})
	require.NoError(t, err)
	assert.Equal(t, "https://books.example/t.jpg", md.PosterURL)
	assert.InDelta(t, 9.0, md.Rating, 1e-9)
}

func TestLookupNotFoundDoesNotTripBreaker(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))

	for i := 0; i < 5; i++ {
		_, err := c.Lookup(context.Background(), Query{ItemType: model.ItemTypeMovie, Title: "nothing"})
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestLookupBreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	for i := 0; i < 4; i++ {
		_, err := c.Lookup(context.Background(), Query{ItemType: model.ItemTypeMovie, Title: "Dune"})
		assert.Error(t, err)
	}
	// 连续失败阈值为 2，之后的请求不再到达上游
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLookupCallerCancelDoesNotTripBreaker(t *testing.T) {
	var calls, slow atomic.Int32
	slow.Store(1)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if slow.Load() == 1 {
			<-r.Context().Done()
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"id":438631,"title":"Dune","poster_path":"/d.jpg"}]}`))
	}))

	for i := 0; i < 4; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		_, err := c.Lookup(ctx, Query{ItemType: model.ItemTypeMovie, Title: "Dune"})
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	// 阈值为 2，超时若计入失败则此时已熔断
	assert.Equal(t, int32(4), calls.Load())

	slow.Store(0)
	md, err := c.Lookup(context.Background(), Query{ItemType: model.ItemTypeMovie, Title: "Dune"})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/w500/d.jpg", md.PosterURL)
}

func TestLookupUnknownTypeIsNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected")
	}))
	_, err := c.Lookup(context.Background(), Query{Title: "Dune"})
	assert.ErrorIs(t, err, ErrNotFound)
}
