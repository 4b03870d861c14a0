package screener

import (
	"sort"

	"github.com/plcheng/screener/internal/contracts"
	"github.com/plcheng/screener/pkg/logger"
)

// Ranker turns metric records into a weighted composite ranking.
//
// For every weighted factor each record gets an average competition rank
// (ties share the mean of the positions they occupy). Records with an
// undefined factor value always rank at the bottom of that factor,
// whatever the direction: undefined is penalized, never rewarded. The
// composite score is the weight-sum of the factor ranks; the final order
// is ascending composite score, stable to input order.
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(log *logger.Logger) *Ranker {
	return &Ranker{
		logger: log,
	}
}

// Rank scores and orders the records under the given weight config.
// Factors absent from weights contribute nothing; unknown factor keys are
// ignored.
func (r *Ranker) Rank(records []contracts.MetricRecord, weights contracts.WeightConfig) []contracts.RankedRecord {
	ranked := make([]contracts.RankedRecord, len(records))
	for i, record := range records {
		ranked[i] = contracts.RankedRecord{
			MetricRecord: record,
			FactorRanks:  make(map[string]float64, len(weights)),
		}
	}

	for factor, w := range weights {
		if !contracts.IsFactorName(factor) {
			continue
		}

		ranks := factorRanks(records, factor, w.HigherIsBetter)
		for i := range ranked {
			ranked[i].FactorRanks[factor] = ranks[i]
			ranked[i].CompositeScore += ranks[i] * w.Weight
		}
	}

	// Lower composite score is better; stable keeps input order on ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore < ranked[j].CompositeScore
	})

	for i := range ranked {
		ranked[i].Position = i + 1
	}

	if len(ranked) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"records":   len(ranked),
			"factors":   len(weights),
			"top":       ranked[0].Ticker,
			"top_score": ranked[0].CompositeScore,
		}).Info("Ranking completed")
	}

	return ranked
}

// factorRanks computes the per-record rank for one factor, 1 = best.
// Defined values are ordered by direction and ties receive the average of
// the positions they span. All undefined values share the averaged bottom
// rank, so with 3 defined and 2 undefined records the undefined pair both
// rank (4+5)/2 = 4.5.
func factorRanks(records []contracts.MetricRecord, factor string, higherIsBetter bool) []float64 {
	type entry struct {
		idx   int
		value float64
	}

	defined := make([]entry, 0, len(records))
	undefined := make([]int, 0)

	for i := range records {
		metric, _ := records[i].Factor(factor)
		if v, ok := metric.Float(); ok {
			defined = append(defined, entry{idx: i, value: v})
		} else {
			undefined = append(undefined, i)
		}
	}

	sort.SliceStable(defined, func(i, j int) bool {
		if higherIsBetter {
			return defined[i].value > defined[j].value
		}
		return defined[i].value < defined[j].value
	})

	ranks := make([]float64, len(records))

	// Average competition ranking over the defined values
	i := 0
	for i < len(defined) {
		j := i
		for j+1 < len(defined) && defined[j+1].value == defined[i].value {
			j++
		}
		// Positions i+1 .. j+1 averaged across the tie group
		avg := float64(i+1+j+1) / 2
		for k := i; k <= j; k++ {
			ranks[defined[k].idx] = avg
		}
		i = j + 1
	}

	// Undefined values tie for the bottom positions
	if len(undefined) > 0 {
		first := len(defined) + 1
		last := len(records)
		avg := float64(first+last) / 2
		for _, idx := range undefined {
			ranks[idx] = avg
		}
	}

	return ranks
}
