package screener

import (
	"context"
	"errors"
	"time"

	"github.com/plcheng/screener/internal/contracts"
	"github.com/plcheng/screener/pkg/config"
	"github.com/plcheng/screener/pkg/logger"
)

// ErrNoValidData is returned when no ticker in a run produced usable
// metrics.
var ErrNoValidData = errors.New("no valid stock data could be fetched from the provider")

// Screener runs the full fetch -> compute -> rank pipeline for one
// request. Tickers are processed strictly one at a time with a fixed
// delay in between so the provider's rate limits are respected; the
// request-level ticker cap bounds total wall-clock time.
type Screener struct {
	fetcher    *Fetcher
	calculator *Calculator
	ranker     *Ranker
	cfg        config.ScreenerConfig
	logger     *logger.Logger
}

// New creates a new screener on top of a data provider
func New(provider Provider, cfg config.ScreenerConfig, log *logger.Logger) *Screener {
	return &Screener{
		fetcher:    NewFetcher(provider, log),
		calculator: NewCalculator(log),
		ranker:     NewRanker(log),
		cfg:        cfg,
		logger:     log,
	}
}

// MaxTickers returns the configured per-run ticker cap
func (s *Screener) MaxTickers() int {
	return s.cfg.MaxTickers
}

// Run fetches and scores every ticker sequentially, then ranks the
// survivors. Tickers that fail to fetch are skipped, not fatal; the run
// fails only when nothing at all was usable.
func (s *Screener) Run(ctx context.Context, tickers []string, weights contracts.WeightConfig) ([]contracts.RankedRecord, error) {
	s.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"factors": len(weights),
	}).Info("Screening run started")

	records := make([]contracts.MetricRecord, 0, len(tickers))

	for i, ticker := range tickers {
		if i > 0 {
			if err := sleepCtx(ctx, s.cfg.FetchDelay); err != nil {
				return nil, err
			}
		}

		raw := s.fetcher.Fetch(ctx, ticker)
		if raw == nil {
			s.logger.WithField("ticker", ticker).Warn("Ticker skipped")
			continue
		}

		records = append(records, s.calculator.Compute(raw))
	}

	if len(records) == 0 {
		return nil, ErrNoValidData
	}

	s.logger.WithFields(map[string]interface{}{
		"requested": len(tickers),
		"usable":    len(records),
	}).Info("Fetch phase completed, ranking")

	return s.ranker.Rank(records, weights), nil
}

// sleepCtx waits for d or until the context is cancelled
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
