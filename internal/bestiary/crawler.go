package bestiary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// DefaultUserAgent identifies lessonlab to the wiki. MediaWiki installs
// reject blank user agents.
const DefaultUserAgent = "lessonlab/1.0 (category census tool)"

// Crawler discovers the page set of a paginated category by following the
// "next page" link from each page to the next.
type Crawler struct {
	Client    *http.Client
	BaseURL   string // scheme and host, e.g. https://ru.wikipedia.org
	NextLabel string // anchor text of the pagination link
	UserAgent string
	Logger    *zap.Logger
	MaxPages  int // safety bound on discovery; 0 means no bound
}

// Discover returns the URLs of every page in the category starting at
// startURL, in crawl order. Discovery is sequential: each page names its
// successor.
func (c *Crawler) Discover(ctx context.Context, startURL string) ([]string, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	urls := []string{startURL}
	current := startURL
	for {
		if c.MaxPages > 0 && len(urls) >= c.MaxPages {
			logger.Warn("page bound reached, stopping discovery",
				zap.Int("max_pages", c.MaxPages))
			break
		}

		body, err := c.get(ctx, current)
		if err != nil {
			return nil, err
		}
		href, err := NextPageHref(strings.NewReader(body), c.NextLabel)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", current, err)
		}
		if href == "" {
			break
		}

		next, err := c.resolve(href)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", current, err)
		}
		urls = append(urls, next)
		current = next
		logger.Debug("discovered category page", zap.String("url", next))
	}

	logger.Info("category discovery complete", zap.Int("pages", len(urls)))
	return urls, nil
}

// Fetch retrieves one category page and tallies its member titles.
func (c *Crawler) Fetch(ctx context.Context, pageURL string) (Census, error) {
	body, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	titles, err := ParseTitles(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", pageURL, err)
	}

	census := make(Census, 64)
	for _, title := range titles {
		census.Add(title)
	}
	return census, nil
}

func (c *Crawler) get(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", pageURL, err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	return string(body), nil
}

// resolve turns a pagination href into an absolute URL against BaseURL.
func (c *Crawler) resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("bad pagination href %q: %w", href, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("bad base URL %q: %w", c.BaseURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}
