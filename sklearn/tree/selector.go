package tree

import (
	"github.com/ctreelab/arbor/core/table"
)

// partitionBranch is one side of a candidate partition: a branch key and the rows routed
// to it, in original row order.
type partitionBranch struct {
	key  string
	rows []int
}

// candidate is a scored way of splitting a node.
type candidate struct {
	column   int
	feature  string
	split    Split
	score    float64
	decrease float64
	branches []partitionBranch
}

// bestSplit evaluates every available feature in column order and returns the highest
// scoring candidate. Earlier features win ties. It reports false when no candidate scores
// above scoreTolerance.
func (b *builder) bestSplit(rows []int, parent float64, features []int) (candidate, bool) {
	var best candidate
	found := false
	for _, j := range features {
		col := b.x.ColumnAt(j)

		var c candidate
		var ok bool
		switch {
		case col.Kind == table.Numeric && b.eval.algorithm.thresholdsNumeric():
			c, ok = b.bestThreshold(col, rows, parent)
		case b.eval.algorithm.bisectsCategorical():
			c, ok = b.bestBisection(col, rows, parent)
		default:
			c, ok = b.multiway(col, rows, parent)
		}
		if !ok {
			continue
		}
		c.column = j
		if !found || c.score > best.score {
			best = c
			found = true
		}
	}
	if !found || best.score <= scoreTolerance {
		return candidate{}, false
	}
	return best, true
}

// multiway partitions rows by every distinct value of col, in first-seen order.
func (b *builder) multiway(col table.Column, rows []int, parent float64) (candidate, bool) {
	groups := groupRows(col, rows)
	if len(groups) < 2 || !b.leafSizesOK(groups) {
		return candidate{}, false
	}
	score, decrease := b.eval.evaluate(parent, len(rows), col.Name, b.branchLabels(groups))
	return candidate{
		feature:  col.Name,
		split:    CategoricalSplit(),
		score:    score,
		decrease: decrease,
		branches: groups,
	}, true
}

// bestBisection tries each distinct value of col against all other values and keeps the
// best. Values are tried in first-seen order and earlier values win ties.
func (b *builder) bestBisection(col table.Column, rows []int, parent float64) (candidate, bool) {
	groups := groupRows(col, rows)
	if len(groups) < 2 {
		return candidate{}, false
	}

	var best candidate
	found := false
	for _, g := range groups {
		rest := make([]int, 0, len(rows)-len(g.rows))
		for _, r := range rows {
			if col.StringAt(r) != g.key {
				rest = append(rest, r)
			}
		}
		branches := []partitionBranch{{key: KeyEqual, rows: g.rows}, {key: KeyNotEqual, rows: rest}}
		if !b.leafSizesOK(branches) {
			continue
		}
		score, decrease := b.eval.evaluate(parent, len(rows), col.Name, b.branchLabels(branches))
		if !found || score > best.score {
			best = candidate{
				feature:  col.Name,
				split:    BinarySplit(g.key),
				score:    score,
				decrease: decrease,
				branches: branches,
			}
			found = true
		}
	}
	return best, found
}

// groupRows groups rows by the string form of their value in col.
func groupRows(col table.Column, rows []int) []partitionBranch {
	index := make(map[string]int)
	var groups []partitionBranch
	for _, r := range rows {
		v := col.StringAt(r)
		i, ok := index[v]
		if !ok {
			i = len(groups)
			index[v] = i
			groups = append(groups, partitionBranch{key: v})
		}
		groups[i].rows = append(groups[i].rows, r)
	}
	return groups
}

// leafSizesOK reports whether every branch holds at least minSamplesLeaf rows and none
// is empty.
func (b *builder) leafSizesOK(branches []partitionBranch) bool {
	for _, br := range branches {
		if len(br.rows) == 0 || len(br.rows) < b.minSamplesLeaf {
			return false
		}
	}
	return true
}

func (b *builder) branchLabels(branches []partitionBranch) [][]string {
	out := make([][]string, len(branches))
	for i, br := range branches {
		out[i] = b.labelsOf(br.rows)
	}
	return out
}
