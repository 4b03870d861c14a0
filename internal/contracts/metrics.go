package contracts

import (
	"encoding/json"
	"math"
)

// Factor keys accepted in weight configurations and used in responses.
const (
	FactorROIC            = "roic"
	FactorRDToSales       = "rd_to_sales"
	FactorNetDebtToEBITDA = "net_debt_to_ebitda"
	FactorEVToFCF         = "ev_to_fcf"
	FactorRevenueCAGR3Y   = "revenue_cagr_3y"
)

// FactorNames returns the canonical factor keys in presentation order
func FactorNames() []string {
	return []string{
		FactorROIC,
		FactorRDToSales,
		FactorNetDebtToEBITDA,
		FactorEVToFCF,
		FactorRevenueCAGR3Y,
	}
}

// IsFactorName reports whether name is a known factor key
func IsFactorName(name string) bool {
	switch name {
	case FactorROIC, FactorRDToSales, FactorNetDebtToEBITDA, FactorEVToFCF, FactorRevenueCAGR3Y:
		return true
	}
	return false
}

// Metric is an optional ratio value: either a defined finite number or
// undefined. Undefined ranks worst in every direction and serializes as
// JSON null, never as zero.
type Metric struct {
	value   float64
	defined bool
}

// DefinedMetric wraps a computed value. NaN and infinities collapse to
// undefined so a degenerate division never leaks into ranking.
func DefinedMetric(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{value: v, defined: true}
}

// UndefinedMetric returns the undefined value
func UndefinedMetric() Metric {
	return Metric{}
}

// Defined reports whether the metric holds a value
func (m Metric) Defined() bool {
	return m.defined
}

// Float returns the value; the second return is false when undefined
func (m Metric) Float() (float64, bool) {
	return m.value, m.defined
}

// MarshalJSON encodes a defined metric as a number and undefined as null
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON decodes null as undefined and any number as defined
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = DefinedMetric(v)
	return nil
}

// MetricRecord holds the five computed factors for one ticker.
type MetricRecord struct {
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	ROIC            Metric `json:"roic"`
	RDToSales       Metric `json:"rd_to_sales"`
	NetDebtToEBITDA Metric `json:"net_debt_to_ebitda"`
	EVToFCF         Metric `json:"ev_to_fcf"`
	RevenueCAGR3Y   Metric `json:"revenue_cagr_3y"`
}

// Factor returns the metric for a factor key.
// The second return is false for unknown keys.
func (r *MetricRecord) Factor(name string) (Metric, bool) {
	switch name {
	case FactorROIC:
		return r.ROIC, true
	case FactorRDToSales:
		return r.RDToSales, true
	case FactorNetDebtToEBITDA:
		return r.NetDebtToEBITDA, true
	case FactorEVToFCF:
		return r.EVToFCF, true
	case FactorRevenueCAGR3Y:
		return r.RevenueCAGR3Y, true
	}
	return Metric{}, false
}

// FactorWeight configures one factor in a screening request.
type FactorWeight struct {
	Weight         float64 `json:"weight"`
	HigherIsBetter bool    `json:"higher_is_better"`
}

// WeightConfig maps factor keys to their weights. Factors absent from the
// map do not participate in ranking at all.
type WeightConfig map[string]FactorWeight

// RankedRecord is a MetricRecord extended with per-factor ranks, the
// weighted composite score and the final 1-based position.
type RankedRecord struct {
	MetricRecord
	FactorRanks    map[string]float64 `json:"factor_ranks"`
	CompositeScore float64            `json:"composite_score"`
	Position       int                `json:"position"`
}
