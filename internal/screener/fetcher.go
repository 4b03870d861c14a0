package screener

import (
	"context"

	"github.com/plcheng/screener/internal/contracts"
	"github.com/plcheng/screener/internal/external/yahoo"
	"github.com/plcheng/screener/pkg/logger"
)

// Provider is the slice of the data provider the fetcher depends on.
// *yahoo.Client satisfies it; tests substitute stubs.
type Provider interface {
	FetchHistory(ctx context.Context, symbol, rng string) ([]yahoo.Bar, error)
	FetchQuoteSummary(ctx context.Context, symbol string) (contracts.CompanyInfo, error)
	FetchStatements(ctx context.Context, symbol string) (income, balance, cashflow contracts.Statement, err error)
	FetchProfile(ctx context.Context, symbol string) (string, error)
}

// Fetcher retrieves the raw financial bundle for one ticker.
// Every failure mode collapses to nil: a bad ticker is skipped upstream,
// never allowed to fail a whole screening run.
type Fetcher struct {
	provider Provider
	logger   *logger.Logger
}

// NewFetcher creates a new fetcher
func NewFetcher(provider Provider, log *logger.Logger) *Fetcher {
	return &Fetcher{
		provider: provider,
		logger:   log,
	}
}

// Fetch retrieves price history, company info and the three financial
// statements for a ticker. Returns nil when the ticker is invalid, the
// disclosure is incomplete, or any provider call fails.
func (f *Fetcher) Fetch(ctx context.Context, ticker string) *contracts.RawFinancials {
	log := f.logger.WithField("ticker", ticker)

	// A symbol with no recent price history is invalid or delisted.
	bars, err := f.provider.FetchHistory(ctx, ticker, "5d")
	if err != nil {
		log.WithError(err).Warn("Price history fetch failed, skipping ticker")
		return nil
	}
	if len(bars) == 0 {
		log.Warn("No recent price history, ticker may be invalid or delisted")
		return nil
	}

	info, err := f.provider.FetchQuoteSummary(ctx, ticker)
	if err != nil {
		log.WithError(err).Warn("Quote summary fetch failed, skipping ticker")
		return nil
	}

	// Fall back to scraping the quote page when the name is missing.
	// A failed fallback is not fatal; the ticker symbol stands in.
	if info.String(contracts.InfoShortName, "") == "" {
		if name, err := f.provider.FetchProfile(ctx, ticker); err == nil {
			info[contracts.InfoShortName] = name
		} else {
			log.WithError(err).Debug("Profile fallback failed")
		}
	}

	income, balance, cashflow, err := f.provider.FetchStatements(ctx, ticker)
	if err != nil {
		log.WithError(err).Warn("Statement fetch failed, skipping ticker")
		return nil
	}

	if income.Empty() || balance.Empty() || cashflow.Empty() {
		log.Warn("Incomplete financial disclosure, skipping ticker")
		return nil
	}

	return &contracts.RawFinancials{
		Ticker:       ticker,
		Info:         info,
		Income:       income,
		BalanceSheet: balance,
		CashFlow:     cashflow,
	}
}
