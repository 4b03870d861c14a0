package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/plcheng/screener/internal/contracts"
)

// rawNumber is Yahoo's number envelope: {"raw": 123.4, "fmt": "123.40"}.
// Raw is a pointer so absent values stay distinguishable from zero.
type rawNumber struct {
	Raw *float64 `json:"raw"`
}

// quoteSummaryResponse mirrors the v10 quoteSummary envelope for the
// modules the screener needs
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName string `json:"shortName"`
				LongName  string `json:"longName"`
				Symbol    string `json:"symbol"`
			} `json:"price"`
			FinancialData struct {
				EBITDA    rawNumber `json:"ebitda"`
				TotalDebt rawNumber `json:"totalDebt"`
				TotalCash rawNumber `json:"totalCash"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				EnterpriseValue rawNumber `json:"enterpriseValue"`
				NetDebt         rawNumber `json:"netDebt"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

// FetchQuoteSummary fetches company info for a symbol. The result is a
// loosely-typed mapping; keys are present only when the provider reported
// a value.
func (c *Client) FetchQuoteSummary(ctx context.Context, symbol string) (contracts.CompanyInfo, error) {
	params := url.Values{}
	params.Set("modules", "price,financialData,defaultKeyStatistics")

	fullURL := fmt.Sprintf("%s/%s?%s", c.cfg.QuoteBaseURL, url.PathEscape(symbol), params.Encode())

	var resp quoteSummaryResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("quoteSummary request failed: %w", err)
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary API error: %s (%s)",
			resp.QuoteSummary.Error.Description, resp.QuoteSummary.Error.Code)
	}

	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quoteSummary result for %s", symbol)
	}

	result := resp.QuoteSummary.Result[0]
	info := contracts.CompanyInfo{}

	if result.Price.ShortName != "" {
		info[contracts.InfoShortName] = result.Price.ShortName
	} else if result.Price.LongName != "" {
		info[contracts.InfoShortName] = result.Price.LongName
	}

	setRaw(info, contracts.InfoEBITDA, result.FinancialData.EBITDA)
	setRaw(info, contracts.InfoNetDebt, result.DefaultKeyStatistics.NetDebt)
	setRaw(info, contracts.InfoEnterpriseValue, result.DefaultKeyStatistics.EnterpriseValue)

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"keys":   len(info),
	}).Debug("Fetched quote summary")

	return info, nil
}

// setRaw stores a provider number only when it was actually reported
func setRaw(info contracts.CompanyInfo, key string, n rawNumber) {
	if n.Raw != nil {
		info[key] = *n.Raw
	}
}
