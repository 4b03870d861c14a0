package contracts

// Canonical line-item names as reported by the statement provider.
// Statement access always goes through these constants.
const (
	ItemOperatingIncome   = "Operating Income"
	ItemTaxProvision      = "Tax Provision"
	ItemPretaxIncome      = "Pretax Income"
	ItemTotalRevenue      = "Total Revenue"
	ItemResearchAndDev    = "Research And Development"
	ItemTotalDebt         = "Total Debt"
	ItemTotalEquity       = "Total Equity Gross Minority Interest"
	ItemCashAndEquivalents = "Cash And Cash Equivalents"
	ItemDepreciationAndAmortization = "Depreciation And Amortization"
	ItemFreeCashFlow      = "Free Cash Flow"
)

// Company info keys supplied by the quote endpoint. The provider schema is
// loosely typed, so presence is never assumed.
const (
	InfoShortName       = "shortName"
	InfoNetDebt         = "netDebt"
	InfoEBITDA          = "ebitda"
	InfoEnterpriseValue = "enterpriseValue"
)

// Statement is a financial statement table: line-item name -> values per
// reporting period, most recent period first.
type Statement map[string][]float64

// Value returns the value of a line item at the given period column.
// The second return is false when the item or column is absent.
func (s Statement) Value(item string, col int) (float64, bool) {
	series, ok := s[item]
	if !ok || col < 0 || col >= len(series) {
		return 0, false
	}
	return series[col], true
}

// Series returns the full period series for a line item, most recent first.
func (s Statement) Series(item string) []float64 {
	return s[item]
}

// Empty reports whether the statement has no line items at all
func (s Statement) Empty() bool {
	return len(s) == 0
}

// CompanyInfo is the loosely-typed company info mapping from the provider.
type CompanyInfo map[string]interface{}

// String returns the string value for key, or def when missing or not a string
func (i CompanyInfo) String(key, def string) string {
	if v, ok := i[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Float returns the numeric value for key. The second return is false when
// the key is missing or holds a non-numeric value.
func (i CompanyInfo) Float(key string) (float64, bool) {
	v, ok := i[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// RawFinancials is the per-ticker data bundle fetched from the provider.
// Upstream guarantees all three statements are non-empty; a ticker with an
// incomplete disclosure never reaches the calculator.
type RawFinancials struct {
	Ticker       string
	Info         CompanyInfo
	Income       Statement
	BalanceSheet Statement
	CashFlow     Statement
}
