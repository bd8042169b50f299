package bestiary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherTallyAll(t *testing.T) {
	pages := []string{
		categoryHTML([]string{"Aardvark", "Ant"}, ""),
		categoryHTML([]string{"Ape", "Badger"}, ""),
		categoryHTML([]string{"Cormorant"}, ""),
	}
	srv := newCategoryServer(t, pages)

	fetcher := &Fetcher{
		Crawler:     &Crawler{Client: srv.Client(), BaseURL: srv.URL, NextLabel: "next page"},
		Concurrency: 2,
	}

	urls := []string{srv.URL + "/page/0", srv.URL + "/page/1", srv.URL + "/page/2"}
	census, err := fetcher.TallyAll(context.Background(), urls)
	require.NoError(t, err)

	assert.Equal(t, Census{"A": 3, "B": 1, "C": 1}, census)
	assert.Equal(t, 5, census.Total())
}

func TestFetcherTallyAll_FirstErrorCancelsRest(t *testing.T) {
	var served atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		served.Add(1)
		fmt.Fprint(w, categoryHTML([]string{"Aardvark"}, ""))
	}))
	defer srv.Close()

	fetcher := &Fetcher{
		Crawler:     &Crawler{Client: srv.Client(), BaseURL: srv.URL, NextLabel: "next page"},
		Concurrency: 1,
	}

	urls := []string{srv.URL + "/bad", srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	_, err := fetcher.TallyAll(context.Background(), urls)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
	assert.Zero(t, served.Load(), "fetches after the failure should have been cancelled")
}

func TestFetcherTallyAll_NoPages(t *testing.T) {
	fetcher := &Fetcher{Crawler: &Crawler{}}
	census, err := fetcher.TallyAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, census)
}
