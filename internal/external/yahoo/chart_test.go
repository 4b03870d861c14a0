package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plcheng/screener/pkg/config"
	"github.com/plcheng/screener/pkg/httputil"
	"github.com/plcheng/screener/pkg/logger"
)

func testClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	log := logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})

	cfg := config.YahooConfig{
		ChartBaseURL:      server.URL + "/chart",
		QuoteBaseURL:      server.URL + "/quote",
		TimeseriesBaseURL: server.URL + "/timeseries",
		ProfileBaseURL:    server.URL + "/profile",
	}

	return NewClient(httputil.New(log).DisableRetry(), cfg, log)
}

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "currency": "USD"},
      "timestamp": [1704758400, 1704844800, 1704931200],
      "indicators": {
        "quote": [{
          "open":   [184.35, 186.54, 186.06],
          "high":   [186.40, 187.05, 186.74],
          "low":    [183.92, 185.10, 184.65],
          "close":  [186.19, 185.59, 185.92],
          "volume": [60133900, 46792900, 40477800]
        }]
      }
    }],
    "error": null
  }
}`

func TestFetchHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/chart/AAPL")
		assert.Equal(t, "5d", r.URL.Query().Get("range"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartFixture))
	}))
	defer server.Close()

	client := testClient(t, server)

	bars, err := client.FetchHistory(context.Background(), "AAPL", "5d")
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, 186.19, bars[0].Close)
	assert.Equal(t, int64(60133900), bars[0].Volume)
}

func TestFetchHistoryEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer server.Close()

	client := testClient(t, server)

	bars, err := client.FetchHistory(context.Background(), "DELISTED", "5d")
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestFetchHistoryAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer server.Close()

	client := testClient(t, server)

	_, err := client.FetchHistory(context.Background(), "NOPE", "5d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}
