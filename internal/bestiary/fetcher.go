package bestiary

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher tallies a set of already-discovered category pages concurrently.
type Fetcher struct {
	Crawler     *Crawler
	Concurrency int // fetch workers; values < 1 fall back to 4
	Logger      *zap.Logger
}

// TallyAll fetches every URL, parses each page, and merges the per-page
// tallies into one census. The first failed fetch cancels the rest.
func (f *Fetcher) TallyAll(ctx context.Context, urls []string) (Census, error) {
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := f.Concurrency
	if limit < 1 {
		limit = 4
	}

	total := make(Census, 64)
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for _, pageURL := range urls {
		eg.Go(func() error {
			page, err := f.Crawler.Fetch(egCtx, pageURL)
			if err != nil {
				return err
			}
			mu.Lock()
			total.Merge(page)
			mu.Unlock()
			logger.Debug("tallied category page",
				zap.String("url", pageURL),
				zap.Int("titles", page.Total()))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Info("census complete",
		zap.Int("pages", len(urls)),
		zap.Int("titles", total.Total()),
		zap.Int("letters", len(total)))
	return total, nil
}
