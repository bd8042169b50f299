package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lessonlab/internal/bestiary"
	"lessonlab/internal/history"
	"lessonlab/internal/report"
)

var (
	scrapeOutput string
	scrapeSave   bool
	historyLimit int
	historyRunID string
)

// beastsCmd groups the wiki census commands
var beastsCmd = &cobra.Command{
	Use:   "beasts",
	Short: "Wiki category census: crawl, aggregate, history",
}

// scrapeCmd runs the full pipeline: discover pages, tally, write CSV
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Crawl the configured category and tally pages per first letter",
	Long: `Discovers every page of the configured alphabetical category by
following its pagination links, fetches the pages concurrently, counts
member titles per first letter, and writes the tally as a letter,count CSV.

Example:
  lessonlab beasts scrape --output beasts.csv --save`,
	RunE: runScrape,
}

// aggregateCmd re-tallies an existing census CSV
var aggregateCmd = &cobra.Command{
	Use:   "aggregate [census.csv]",
	Short: "Read a letter,count CSV and print per-letter totals",
	Args:  cobra.ExactArgs(1),
	RunE:  runAggregate,
}

// historyCmd lists or replays saved census runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved census runs, or print one run with --run",
	RunE:  runHistory,
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "CSV output path (default from config)")
	scrapeCmd.Flags().BoolVar(&scrapeSave, "save", false, "record the run in the history database")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of runs to list")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "print the census of one saved run")

	beastsCmd.AddCommand(scrapeCmd)
	beastsCmd.AddCommand(aggregateCmd)
	beastsCmd.AddCommand(historyCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return err
	}

	crawler := &bestiary.Crawler{
		Client:    &http.Client{Timeout: timeout},
		BaseURL:   cfg.Crawl.BaseURL,
		NextLabel: cfg.Crawl.NextLabel,
		UserAgent: cfg.Crawl.UserAgent,
		Logger:    logger,
		MaxPages:  cfg.Crawl.MaxPages,
	}

	startURL := cfg.StartURL()
	logger.Info("starting census crawl", zap.String("start_url", startURL))
	startedAt := time.Now()

	urls, err := crawler.Discover(ctx, startURL)
	if err != nil {
		return fmt.Errorf("discover category pages: %w", err)
	}
	fmt.Printf("Found %d category pages\n", len(urls))

	fetcher := &bestiary.Fetcher{
		Crawler:     crawler,
		Concurrency: cfg.Crawl.Concurrency,
		Logger:      logger,
	}
	census, err := fetcher.TallyAll(ctx, urls)
	if err != nil {
		return fmt.Errorf("tally category pages: %w", err)
	}

	output := scrapeOutput
	if output == "" {
		output = cfg.Output.CSVPath
	}
	if err := report.WriteCensusFile(output, census); err != nil {
		return err
	}
	fmt.Printf("Counted %d pages across %d letters\n", census.Total(), len(census))
	fmt.Printf("Census written to %s\n", output)

	if scrapeSave {
		store, err := history.Open(cfg.Output.HistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.RecordRun(ctx, history.Run{
			SourceURL:  startURL,
			Pages:      len(urls),
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
		}, census)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		fmt.Printf("Run saved as %s\n", id)
	}
	return nil
}

func runAggregate(cmd *cobra.Command, args []string) error {
	census, err := report.ReadCensusFile(args[0])
	if err != nil {
		return err
	}

	for _, letter := range census.Letters() {
		fmt.Printf("%s: %d\n", letter, census[letter])
	}
	fmt.Printf("Total: %d\n", census.Total())
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := history.Open(cfg.Output.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if historyRunID != "" {
		census, err := store.RunCensus(ctx, historyRunID)
		if err != nil {
			return err
		}
		for _, letter := range census.Letters() {
			fmt.Printf("%s: %d\n", letter, census[letter])
		}
		return nil
	}

	runs, err := store.Runs(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No saved runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  pages=%d total=%d  %s\n",
			r.ID, r.FinishedAt.Format(time.RFC3339), r.Pages, r.Total, r.SourceURL)
	}
	return nil
}
