package bestiary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newCategoryServer serves a three-page category: pages 0 and 1 link to
// their successor, page 2 is the last.
func newCategoryServer(t *testing.T, pages []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for i, page := range pages {
		mux.HandleFunc(fmt.Sprintf("/page/%d", i), func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, page)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func categoryHTML(members []string, nextHref string) string {
	page := `<div class="mw-category"><ul>`
	for _, m := range members {
		page += fmt.Sprintf(`<li><a title=%q>%s</a></li>`, m, m)
	}
	page += `</ul></div>`
	if nextHref != "" {
		page += fmt.Sprintf(`<a href=%q>next page</a>`, nextHref)
	}
	return page
}

func TestCrawlerDiscover(t *testing.T) {
	pages := []string{
		categoryHTML([]string{"Aardvark"}, "/page/1"),
		categoryHTML([]string{"Badger"}, "/page/2"),
		categoryHTML([]string{"Cormorant"}, ""),
	}
	srv := newCategoryServer(t, pages)

	crawler := &Crawler{
		Client:    srv.Client(),
		BaseURL:   srv.URL,
		NextLabel: "next page",
	}

	urls, err := crawler.Discover(context.Background(), srv.URL+"/page/0")
	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/page/0",
		srv.URL + "/page/1",
		srv.URL + "/page/2",
	}, urls)
}

func TestCrawlerDiscover_MaxPages(t *testing.T) {
	// Every page links to itself: without the bound, discovery never ends.
	srv := newCategoryServer(t, []string{categoryHTML(nil, "/page/0")})

	crawler := &Crawler{
		Client:    srv.Client(),
		BaseURL:   srv.URL,
		NextLabel: "next page",
		MaxPages:  3,
	}

	urls, err := crawler.Discover(context.Background(), srv.URL+"/page/0")
	require.NoError(t, err)
	assert.Len(t, urls, 3)
}

func TestCrawlerDiscover_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	crawler := &Crawler{Client: srv.Client(), BaseURL: srv.URL, NextLabel: "next page"}

	_, err := crawler.Discover(context.Background(), srv.URL+"/page/0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestCrawlerFetch(t *testing.T) {
	srv := newCategoryServer(t, []string{
		categoryHTML([]string{"Aardvark", "Ant", "Badger"}, ""),
	})

	crawler := &Crawler{Client: srv.Client(), BaseURL: srv.URL, NextLabel: "next page"}

	census, err := crawler.Fetch(context.Background(), srv.URL+"/page/0")
	require.NoError(t, err)
	assert.Equal(t, Census{"A": 2, "B": 1}, census)
}

func TestCrawlerFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	crawler := &Crawler{Client: srv.Client(), BaseURL: srv.URL, NextLabel: "next page"}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := crawler.Fetch(ctx, srv.URL+"/page/0")
	assert.Error(t, err)
}
