package yahoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plcheng/screener/internal/contracts"
)

const timeseriesFixture = `{
  "timeseries": {
    "result": [
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualTotalRevenue"]},
        "timestamp": [1601424000, 1632960000, 1664496000, 1696032000],
        "annualTotalRevenue": [
          {"asOfDate": "2020-09-30", "reportedValue": {"raw": 274515000000, "fmt": "274.52B"}},
          {"asOfDate": "2021-09-30", "reportedValue": {"raw": 365817000000, "fmt": "365.82B"}},
          {"asOfDate": "2022-09-30", "reportedValue": {"raw": 394328000000, "fmt": "394.33B"}},
          {"asOfDate": "2023-09-30", "reportedValue": {"raw": 383285000000, "fmt": "383.29B"}}
        ]
      },
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualTotalDebt"]},
        "annualTotalDebt": [
          null,
          {"asOfDate": "2022-09-30", "reportedValue": {"raw": 120069000000, "fmt": "120.07B"}},
          {"asOfDate": "2023-09-30", "reportedValue": {"raw": 111088000000, "fmt": "111.09B"}}
        ]
      },
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualFreeCashFlow"]},
        "annualFreeCashFlow": [
          {"asOfDate": "2023-09-30", "reportedValue": {"raw": 99584000000, "fmt": "99.58B"}}
        ]
      }
    ],
    "error": null
  }
}`

func TestFetchStatements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/timeseries/AAPL")
		assert.Contains(t, r.URL.Query().Get("type"), "annualTotalRevenue")
		w.Write([]byte(timeseriesFixture))
	}))
	defer server.Close()

	client := testClient(t, server)

	income, balance, cashflow, err := client.FetchStatements(context.Background(), "AAPL")
	require.NoError(t, err)

	// Revenue series is reordered most-recent-first
	revenue := income.Series(contracts.ItemTotalRevenue)
	require.Len(t, revenue, 4)
	assert.Equal(t, 383285000000.0, revenue[0])
	assert.Equal(t, 274515000000.0, revenue[3])

	// Null datapoints are dropped
	debt := balance.Series(contracts.ItemTotalDebt)
	require.Len(t, debt, 2)
	assert.Equal(t, 111088000000.0, debt[0])

	fcf, ok := cashflow.Value(contracts.ItemFreeCashFlow, 0)
	require.True(t, ok)
	assert.Equal(t, 99584000000.0, fcf)
}

func TestFetchStatementsMissingItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"timeseries":{"result":[],"error":null}}`))
	}))
	defer server.Close()

	client := testClient(t, server)

	income, balance, cashflow, err := client.FetchStatements(context.Background(), "SPARSE")
	require.NoError(t, err)

	assert.True(t, income.Empty())
	assert.True(t, balance.Empty())
	assert.True(t, cashflow.Empty())
}

func TestParseTimeseriesResult(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantLen  int
		wantErr  bool
	}{
		{
			name: "ordered most recent first",
			raw: `{
				"meta": {"type": ["annualOperatingIncome"]},
				"annualOperatingIncome": [
					{"asOfDate": "2021-09-30", "reportedValue": {"raw": 1.0}},
					{"asOfDate": "2023-09-30", "reportedValue": {"raw": 3.0}},
					{"asOfDate": "2022-09-30", "reportedValue": {"raw": 2.0}}
				]
			}`,
			wantType: "annualOperatingIncome",
			wantLen:  3,
		},
		{
			name:     "missing datapoints key",
			raw:      `{"meta": {"type": ["annualTaxProvision"]}}`,
			wantType: "annualTaxProvision",
			wantLen:  0,
		},
		{
			name:    "no type in meta",
			raw:     `{"meta": {"type": []}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tsType, series, err := parseTimeseriesResult(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, tsType)
			assert.Len(t, series, tt.wantLen)

			if tt.wantLen == 3 {
				assert.Equal(t, []float64{3.0, 2.0, 1.0}, series)
			}
		})
	}
}
