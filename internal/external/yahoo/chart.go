package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Bar represents one daily price bar
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// chartResponse mirrors the v8 chart API envelope
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FetchHistory fetches daily price bars for the given range (e.g. "5d").
// An empty result means the symbol is unknown or delisted.
func (c *Client) FetchHistory(ctx context.Context, symbol, rng string) ([]Bar, error) {
	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", "1d")

	fullURL := fmt.Sprintf("%s/%s?%s", c.cfg.ChartBaseURL, url.PathEscape(symbol), params.Encode())

	var resp chartResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s (%s)", resp.Chart.Error.Description, resp.Chart.Error.Code)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	result := resp.Chart.Result[0]
	bars := make([]Bar, 0, len(result.Timestamp))

	var quote struct {
		Open   []float64
		High   []float64
		Low    []float64
		Close  []float64
		Volume []int64
	}
	if len(result.Indicators.Quote) > 0 {
		q := result.Indicators.Quote[0]
		quote.Open, quote.High, quote.Low, quote.Close, quote.Volume = q.Open, q.High, q.Low, q.Close, q.Volume
	}

	at := func(s []float64, i int) float64 {
		if i < len(s) {
			return s[i]
		}
		return 0
	}

	for i, ts := range result.Timestamp {
		bar := Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      at(quote.Open, i),
			High:      at(quote.High, i),
			Low:       at(quote.Low, i),
			Close:     at(quote.Close, i),
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"range":  rng,
		"bars":   len(bars),
	}).Debug("Fetched price history")

	return bars, nil
}
