package screener

import (
	"math"

	"github.com/plcheng/screener/internal/contracts"
	"github.com/plcheng/screener/pkg/logger"
)

// Calculator derives the five screening factors from a raw financial
// bundle. Each factor is computed in isolation: a missing line item or a
// zero denominator degrades that one factor to undefined and never
// disturbs the other four.
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a new calculator
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{
		logger: log,
	}
}

// Compute calculates the metric record for one ticker
func (c *Calculator) Compute(raw *contracts.RawFinancials) contracts.MetricRecord {
	record := contracts.MetricRecord{
		Ticker:          raw.Ticker,
		Name:            raw.Info.String(contracts.InfoShortName, raw.Ticker),
		ROIC:            roic(raw.Income, raw.BalanceSheet),
		RDToSales:       rdToSales(raw.Income),
		NetDebtToEBITDA: netDebtToEBITDA(raw.Info, raw.Income, raw.BalanceSheet, raw.CashFlow),
		EVToFCF:         evToFCF(raw.Info, raw.CashFlow),
		RevenueCAGR3Y:   revenueCAGR3Y(raw.Income),
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": raw.Ticker,
		"name":   record.Name,
	}).Debug("Computed metrics")

	return record
}

// roic computes NOPAT / invested capital from the most recent period.
// Invested capital = total debt + total equity - cash.
func roic(income, balance contracts.Statement) contracts.Metric {
	opIncome, ok := income.Value(contracts.ItemOperatingIncome, 0)
	if !ok {
		return contracts.UndefinedMetric()
	}
	taxProvision, ok := income.Value(contracts.ItemTaxProvision, 0)
	if !ok {
		return contracts.UndefinedMetric()
	}
	pretaxIncome, ok := income.Value(contracts.ItemPretaxIncome, 0)
	if !ok {
		return contracts.UndefinedMetric()
	}

	taxRate := 0.0
	if pretaxIncome > 0 {
		taxRate = taxProvision / pretaxIncome
	}
	nopat := opIncome * (1 - taxRate)

	totalDebt, ok := balance.Value(contracts.ItemTotalDebt, 0)
	if !ok {
		return contracts.UndefinedMetric()
	}
	totalEquity, ok := balance.Value(contracts.ItemTotalEquity, 0)
	if !ok {
		return contracts.UndefinedMetric()
	}
	cash, ok := balance.Value(contracts.ItemCashAndEquivalents, 0)
	if !ok {
		return contracts.UndefinedMetric()
	}

	investedCapital := totalDebt + totalEquity - cash
	if investedCapital == 0 {
		return contracts.UndefinedMetric()
	}

	return contracts.DefinedMetric(nopat / investedCapital)
}

// rdToSales computes R&D expense over total revenue
func rdToSales(income contracts.Statement) contracts.Metric {
	rd, ok := income.Value(contracts.ItemResearchAndDev, 0)
	if !ok {
		return contracts.UndefinedMetric()
	}
	revenue, ok := income.Value(contracts.ItemTotalRevenue, 0)
	if !ok || revenue <= 0 {
		return contracts.UndefinedMetric()
	}

	return contracts.DefinedMetric(rd / revenue)
}

// netDebtToEBITDA computes net debt over EBITDA. Both terms prefer the
// provider-supplied figure and fall back to deriving from the statements.
func netDebtToEBITDA(info contracts.CompanyInfo, income, balance, cashflow contracts.Statement) contracts.Metric {
	netDebt, ok := info.Float(contracts.InfoNetDebt)
	if !ok {
		totalDebt, okDebt := balance.Value(contracts.ItemTotalDebt, 0)
		cash, okCash := balance.Value(contracts.ItemCashAndEquivalents, 0)
		if !okDebt || !okCash {
			return contracts.UndefinedMetric()
		}
		netDebt = totalDebt - cash
	}

	ebitda, ok := info.Float(contracts.InfoEBITDA)
	if !ok {
		opIncome, okOp := income.Value(contracts.ItemOperatingIncome, 0)
		da, okDA := cashflow.Value(contracts.ItemDepreciationAndAmortization, 0)
		if !okOp || !okDA {
			return contracts.UndefinedMetric()
		}
		ebitda = opIncome + da
	}

	if ebitda == 0 {
		return contracts.UndefinedMetric()
	}

	return contracts.DefinedMetric(netDebt / ebitda)
}

// evToFCF computes enterprise value over free cash flow
func evToFCF(info contracts.CompanyInfo, cashflow contracts.Statement) contracts.Metric {
	ev, ok := info.Float(contracts.InfoEnterpriseValue)
	if !ok {
		return contracts.UndefinedMetric()
	}
	fcf, ok := cashflow.Value(contracts.ItemFreeCashFlow, 0)
	if !ok || fcf == 0 {
		return contracts.UndefinedMetric()
	}

	return contracts.DefinedMetric(ev / fcf)
}

// revenueCAGR3Y computes the 3-year compound annual growth rate of total
// revenue. Needs at least 4 annual periods, most recent first.
func revenueCAGR3Y(income contracts.Statement) contracts.Metric {
	revenue := income.Series(contracts.ItemTotalRevenue)
	if len(revenue) < 4 {
		return contracts.UndefinedMetric()
	}

	current, base := revenue[0], revenue[3]
	if base <= 0 {
		return contracts.UndefinedMetric()
	}

	// A negative current revenue makes the ratio negative and Pow returns
	// NaN, which DefinedMetric collapses to undefined.
	return contracts.DefinedMetric(math.Pow(current/base, 1.0/3.0) - 1)
}
