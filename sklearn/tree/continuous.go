package tree

import (
	"sort"

	"github.com/ctreelab/arbor/core/table"
)

// bestThreshold scans the midpoints between consecutive distinct values of a numeric
// column and returns the best scoring <=/> partition. Lower thresholds win ties. Both
// sides keep the original row order, so child nodes hit the impurity cache entries
// written here.
func (b *builder) bestThreshold(col table.Column, rows []int, parent float64) (candidate, bool) {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = col.Numeric[r]
	}
	distinct := distinctSorted(values)
	if len(distinct) < 2 {
		return candidate{}, false
	}

	var best candidate
	found := false
	for i := 0; i+1 < len(distinct); i++ {
		threshold := (distinct[i] + distinct[i+1]) / 2

		left := make([]int, 0, len(rows))
		right := make([]int, 0, len(rows))
		for k, r := range rows {
			if values[k] <= threshold {
				left = append(left, r)
			} else {
				right = append(right, r)
			}
		}
		branches := []partitionBranch{{key: KeyLessEqual, rows: left}, {key: KeyGreater, rows: right}}
		if !b.leafSizesOK(branches) {
			continue
		}

		score, decrease := b.eval.evaluate(parent, len(rows), col.Name, b.branchLabels(branches))
		if !found || score > best.score {
			best = candidate{
				feature:  col.Name,
				split:    ContinuousSplit(threshold),
				score:    score,
				decrease: decrease,
				branches: branches,
			}
			found = true
		}
	}
	return best, found
}

// distinctSorted returns the distinct values in ascending order.
func distinctSorted(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	out := sorted[:0]
	for _, v := range sorted {
		if len(out) == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
