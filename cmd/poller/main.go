package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rgajunior/trading/db"
	"github.com/rgajunior/trading/internal/config"
	"github.com/rgajunior/trading/internal/fetch"
	"github.com/rgajunior/trading/internal/poller"
	"github.com/rgajunior/trading/internal/repository"
	"github.com/rgajunior/trading/internal/sentiment"
	"github.com/rgajunior/trading/internal/universe"
	"github.com/rgajunior/trading/pkg/news"
	"github.com/rgajunior/trading/pkg/scorer"
	"github.com/rgajunior/trading/pkg/screener"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	newsClient, err := newNewsClient(cfg)
	if err != nil {
		log.Fatalf("error building news client: %v", err)
	}

	itemScorer, err := newScorer(cfg)
	if err != nil {
		log.Fatalf("error building scorer: %v", err)
	}

	universeRepo := repository.NewUniverseRepository(db.DB)
	snapshotRepo := repository.NewSnapshotRepository(db.DB)

	selector := universe.NewSelector(screener.NewNasdaqClient(), universeRepo, universe.Options{
		MinPrice:     cfg.MinPrice,
		MaxPrice:     cfg.MaxPrice,
		FloatCeiling: cfg.FloatCeiling,
		TTL:          cfg.UniverseTTL,
	})

	cache := sentiment.NewScoreCache(itemScorer, cfg.SentimentTTL)

	loop := poller.New(poller.Deps{
		Selector:   selector,
		Fetcher: fetch.New(newsClient, fetch.Options{
			GroupSize: cfg.GroupSize,
			Workers:   cfg.MaxWorkers,
			Stagger:   cfg.SubmitStagger,
			Timeout:   cfg.FetchTimeout,
			Topic:     cfg.NewsTopic,
			MaxAge:    cfg.RecencyWindow,
		}),
		Aggregator: sentiment.NewAggregator(cache, cfg.RecencyWindow),
		Cache:      cache,
		Store:      snapshotRepo,
		Publisher:  &poller.RedisPublisher{TTL: 2 * cfg.BackoffInterval},
	}, cfg.PollInterval, cfg.BackoffInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// On the first ever run there is no persisted universe to fall back
	// on, so an unreachable symbol source is a startup failure rather
	// than something to retry forever.
	if _, err := selector.Select(ctx); err != nil {
		if cached, cacheErr := universeRepo.Latest(); cacheErr != nil || cached == nil {
			log.Fatalf("symbol source unreachable with no cached universe: %v", err)
		}
		slog.Warn("universe refresh failed at startup, retrying each cycle", "error", err)
	}

	slog.Info("poller starting",
		"news_source", newsClient.Name(),
		"scorer", itemScorer.Name(),
		"poll_interval", cfg.PollInterval,
		"price_band", fmt.Sprintf("[%.2f, %.2f)", cfg.MinPrice, cfg.MaxPrice))

	err = loop.Run(ctx)
	slog.Info("poller stopped", "reason", err)
}

func newNewsClient(cfg *config.Config) (news.Client, error) {
	switch cfg.NewsSource {
	case "rss":
		return news.NewRSSClient(), nil
	case "alphavantage":
		key := os.Getenv("ALPHA_VANTAGE_API_KEY")
		if key == "" {
			return nil, errors.New("ALPHA_VANTAGE_API_KEY environment variable is not set")
		}
		return news.NewAlphaVantageClient(key), nil
	case "finnhub":
		key := os.Getenv("FINNHUB_API_KEY")
		if key == "" {
			return nil, errors.New("FINNHUB_API_KEY environment variable is not set")
		}
		return news.NewFinnHubClient(key), nil
	}
	return nil, fmt.Errorf("unknown news source %q", cfg.NewsSource)
}

func newScorer(cfg *config.Config) (scorer.Scorer, error) {
	switch cfg.ScorerName {
	case "vader":
		return scorer.NewVADERScorer(), nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, errors.New("OPENAI_API_KEY environment variable is not set")
		}
		return scorer.NewOpenAIScorer(key), nil
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, errors.New("ANTHROPIC_API_KEY environment variable is not set")
		}
		return scorer.NewAnthropicScorer(key), nil
	}
	return nil, fmt.Errorf("unknown scorer %q", cfg.ScorerName)
}
