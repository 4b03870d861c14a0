package screener

import (
	"context"
	"errors"
	"time"

	"github.com/plcheng/screener/internal/contracts"
	"github.com/plcheng/screener/internal/external/yahoo"
	"github.com/plcheng/screener/pkg/config"
	"github.com/plcheng/screener/pkg/logger"
)

// stubProvider is an in-memory Provider for tests
type stubProvider struct {
	history    map[string][]yahoo.Bar
	info       map[string]contracts.CompanyInfo
	income     map[string]contracts.Statement
	balance    map[string]contracts.Statement
	cashflow   map[string]contracts.Statement
	profile    map[string]string
	historyErr error
	quoteErr   error
	stmtErr    error
	profileErr error
}

func (p *stubProvider) FetchHistory(ctx context.Context, symbol, rng string) ([]yahoo.Bar, error) {
	if p.historyErr != nil {
		return nil, p.historyErr
	}
	return p.history[symbol], nil
}

func (p *stubProvider) FetchQuoteSummary(ctx context.Context, symbol string) (contracts.CompanyInfo, error) {
	if p.quoteErr != nil {
		return nil, p.quoteErr
	}
	if info, ok := p.info[symbol]; ok {
		return info, nil
	}
	return contracts.CompanyInfo{}, nil
}

func (p *stubProvider) FetchStatements(ctx context.Context, symbol string) (contracts.Statement, contracts.Statement, contracts.Statement, error) {
	if p.stmtErr != nil {
		return nil, nil, nil, p.stmtErr
	}
	return p.income[symbol], p.balance[symbol], p.cashflow[symbol], nil
}

func (p *stubProvider) FetchProfile(ctx context.Context, symbol string) (string, error) {
	if p.profileErr != nil {
		return "", p.profileErr
	}
	if name, ok := p.profile[symbol]; ok {
		return name, nil
	}
	return "", errors.New("no profile")
}

func testLog() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

// liveBars is a non-empty 5-day history marking a ticker as tradable
func liveBars() []yahoo.Bar {
	return []yahoo.Bar{
		{Timestamp: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), Close: 185.9},
		{Timestamp: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Close: 186.2},
	}
}

// fullStatements returns a complete set of statements for one ticker
func fullStatements() (income, balance, cashflow contracts.Statement) {
	income = contracts.Statement{
		contracts.ItemOperatingIncome: {120},
		contracts.ItemTaxProvision:    {20},
		contracts.ItemPretaxIncome:    {100},
		contracts.ItemTotalRevenue:    {400, 380, 360, 300},
		contracts.ItemResearchAndDev:  {30},
	}
	balance = contracts.Statement{
		contracts.ItemTotalDebt:          {100},
		contracts.ItemTotalEquity:        {500},
		contracts.ItemCashAndEquivalents: {100},
	}
	cashflow = contracts.Statement{
		contracts.ItemDepreciationAndAmortization: {40},
		contracts.ItemFreeCashFlow:                {100},
	}
	return income, balance, cashflow
}
