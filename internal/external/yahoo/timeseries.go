package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/plcheng/screener/internal/contracts"
)

// timeseries type -> canonical line-item name, per target statement.
var (
	incomeTypes = map[string]string{
		"annualOperatingIncome":        contracts.ItemOperatingIncome,
		"annualTaxProvision":           contracts.ItemTaxProvision,
		"annualPretaxIncome":           contracts.ItemPretaxIncome,
		"annualTotalRevenue":           contracts.ItemTotalRevenue,
		"annualResearchAndDevelopment": contracts.ItemResearchAndDev,
	}
	balanceTypes = map[string]string{
		"annualTotalDebt":                        contracts.ItemTotalDebt,
		"annualTotalEquityGrossMinorityInterest": contracts.ItemTotalEquity,
		"annualCashAndCashEquivalents":           contracts.ItemCashAndEquivalents,
	}
	cashflowTypes = map[string]string{
		"annualDepreciationAndAmortization": contracts.ItemDepreciationAndAmortization,
		"annualFreeCashFlow":                contracts.ItemFreeCashFlow,
	}
)

// dataPoint is one reported annual value for a timeseries type
type dataPoint struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue struct {
		Raw *float64 `json:"raw"`
	} `json:"reportedValue"`
}

// timeseriesResponse mirrors the fundamentals-timeseries envelope. Each
// result carries its datapoints under a key named after the requested type,
// so results are decoded in two passes.
type timeseriesResponse struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *apiError         `json:"error"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Meta struct {
		Symbol []string `json:"symbol"`
		Type   []string `json:"type"`
	} `json:"meta"`
}

// FetchStatements fetches the annual income statement, balance sheet and
// cash flow statement for a symbol. Tables are keyed by canonical line-item
// names with columns most-recent-first. A statement with no reported line
// items comes back empty; completeness checks belong to the caller.
func (c *Client) FetchStatements(ctx context.Context, symbol string) (income, balance, cashflow contracts.Statement, err error) {
	types := make([]string, 0, len(incomeTypes)+len(balanceTypes)+len(cashflowTypes))
	for t := range incomeTypes {
		types = append(types, t)
	}
	for t := range balanceTypes {
		types = append(types, t)
	}
	for t := range cashflowTypes {
		types = append(types, t)
	}
	sort.Strings(types)

	now := time.Now()
	params := url.Values{}
	params.Set("type", strings.Join(types, ","))
	params.Set("period1", fmt.Sprintf("%d", now.AddDate(-5, 0, 0).Unix()))
	params.Set("period2", fmt.Sprintf("%d", now.Unix()))
	params.Set("merge", "false")

	fullURL := fmt.Sprintf("%s/%s?%s", c.cfg.TimeseriesBaseURL, url.PathEscape(symbol), params.Encode())

	var resp timeseriesResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, nil, nil, fmt.Errorf("timeseries request failed: %w", err)
	}

	if resp.Timeseries.Error != nil {
		return nil, nil, nil, fmt.Errorf("timeseries API error: %s (%s)",
			resp.Timeseries.Error.Description, resp.Timeseries.Error.Code)
	}

	income = contracts.Statement{}
	balance = contracts.Statement{}
	cashflow = contracts.Statement{}

	for _, raw := range resp.Timeseries.Result {
		tsType, series, err := parseTimeseriesResult(raw)
		if err != nil {
			c.logger.WithError(err).WithField("symbol", symbol).Warn("Skipping malformed timeseries result")
			continue
		}
		if len(series) == 0 {
			continue
		}

		if item, ok := incomeTypes[tsType]; ok {
			income[item] = series
		} else if item, ok := balanceTypes[tsType]; ok {
			balance[item] = series
		} else if item, ok := cashflowTypes[tsType]; ok {
			cashflow[item] = series
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"income":   len(income),
		"balance":  len(balance),
		"cashflow": len(cashflow),
	}).Debug("Fetched financial statements")

	return income, balance, cashflow, nil
}

// parseTimeseriesResult extracts the type name and the reported values of
// one result entry, ordered most-recent-first.
func parseTimeseriesResult(raw json.RawMessage) (string, []float64, error) {
	var meta timeseriesMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return "", nil, fmt.Errorf("decode meta: %w", err)
	}
	if len(meta.Meta.Type) == 0 {
		return "", nil, fmt.Errorf("result without type")
	}
	tsType := meta.Meta.Type[0]

	// Second pass: the datapoints live under a key named after the type.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", nil, fmt.Errorf("decode fields: %w", err)
	}

	pointsRaw, ok := fields[tsType]
	if !ok {
		return tsType, nil, nil
	}

	// Yahoo pads missing periods with JSON nulls
	var points []*dataPoint
	if err := json.Unmarshal(pointsRaw, &points); err != nil {
		return "", nil, fmt.Errorf("decode datapoints for %s: %w", tsType, err)
	}

	reported := make([]dataPoint, 0, len(points))
	for _, p := range points {
		if p == nil || p.ReportedValue.Raw == nil {
			continue
		}
		reported = append(reported, *p)
	}

	// Provider order is oldest-first; statements are most-recent-first.
	sort.Slice(reported, func(i, j int) bool {
		return reported[i].AsOfDate > reported[j].AsOfDate
	})

	series := make([]float64, 0, len(reported))
	for _, p := range reported {
		series = append(series, *p.ReportedValue.Raw)
	}

	return tsType, series, nil
}
