// Package model_selection splits labeled rows into train and test sets.
package model_selection

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/ctreelab/arbor/pkg/errors"
)

// Split holds ascending row indices of a train and a test set.
type Split struct {
	Train []int
	Test  []int
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func shuffle(r *rand.Rand, indices []int) {
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}

// groupByClass returns the row indices of each class, classes in sorted order.
func groupByClass(labels []string) ([]string, map[string][]int) {
	groups := make(map[string][]int)
	for i, l := range labels {
		groups[l] = append(groups[l], i)
	}
	classes := make([]string, 0, len(groups))
	for c := range groups {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes, groups
}

// TrainTestSplit holds out ceil(testSize * n) of the n rows. With stratify the test set
// keeps the class proportions of labels, rounding by largest remainder. The same seed
// always yields the same split.
func TrainTestSplit(labels []string, testSize float64, seed uint64, stratify bool) (Split, error) {
	const op = "TrainTestSplit"

	n := len(labels)
	if n == 0 {
		return Split{}, errors.NewEmptyInputError(op)
	}
	if testSize <= 0 || testSize >= 1 || math.IsNaN(testSize) {
		return Split{}, errors.NewConfigurationError("test_size", testSize, "must be in (0, 1)")
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest >= n {
		return Split{}, errors.NewInvalidInputErrorf(op, "test_size %.2f leaves no training rows out of %d", testSize, n)
	}

	r := newRNG(seed)
	var test []int
	if !stratify {
		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}
		shuffle(r, perm)
		test = append(test, perm[:nTest]...)
	} else {
		classes, groups := groupByClass(labels)
		quota := allocate(classes, groups, nTest, n)
		for i, c := range classes {
			rows := append([]int(nil), groups[c]...)
			shuffle(r, rows)
			test = append(test, rows[:quota[i]]...)
		}
	}
	return complement(n, test), nil
}

// allocate distributes total test rows over classes proportionally to their sizes. The
// leftover of the floor rounding goes to the largest fractional parts, earlier classes
// first on ties.
func allocate(classes []string, groups map[string][]int, total, n int) []int {
	quota := make([]int, len(classes))
	frac := make([]float64, len(classes))
	assigned := 0
	for i, c := range classes {
		exact := float64(total) * float64(len(groups[c])) / float64(n)
		quota[i] = int(math.Floor(exact))
		frac[i] = exact - float64(quota[i])
		assigned += quota[i]
	}
	order := make([]int, len(classes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return frac[order[a]] > frac[order[b]] })
	for _, i := range order {
		if assigned == total {
			break
		}
		if quota[i] < len(groups[classes[i]]) {
			quota[i]++
			assigned++
		}
	}
	return quota
}

func complement(n int, test []int) Split {
	inTest := make([]bool, n)
	for _, i := range test {
		inTest[i] = true
	}
	s := Split{Train: make([]int, 0, n-len(test)), Test: make([]int, 0, len(test))}
	for i := 0; i < n; i++ {
		if inTest[i] {
			s.Test = append(s.Test, i)
		} else {
			s.Train = append(s.Train, i)
		}
	}
	return s
}

// KFold partitions n rows into k folds of near-equal size; the first n % k folds get one
// extra row. Each returned Split tests on one fold and trains on the rest.
func KFold(n, k int, shuffled bool, seed uint64) ([]Split, error) {
	if err := checkFolds(n, k); err != nil {
		return nil, err
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if shuffled {
		shuffle(newRNG(seed), indices)
	}

	folds := make([]Split, k)
	size, remainder := n/k, n%k
	start := 0
	for i := 0; i < k; i++ {
		m := size
		if i < remainder {
			m++
		}
		folds[i] = complement(n, indices[start:start+m])
		start += m
	}
	return folds, nil
}

// StratifiedKFold is KFold applied within each class, so every fold keeps roughly the
// class proportions of labels.
func StratifiedKFold(labels []string, k int, shuffled bool, seed uint64) ([]Split, error) {
	n := len(labels)
	if err := checkFolds(n, k); err != nil {
		return nil, err
	}
	r := newRNG(seed)
	classes, groups := groupByClass(labels)

	tests := make([][]int, k)
	next := 0
	for _, c := range classes {
		rows := groups[c]
		if shuffled {
			shuffle(r, rows)
		}
		// The round-robin carries over between classes.
		for _, row := range rows {
			tests[next] = append(tests[next], row)
			next = (next + 1) % k
		}
	}

	folds := make([]Split, k)
	for i := range folds {
		folds[i] = complement(n, tests[i])
	}
	return folds, nil
}

func checkFolds(n, k int) error {
	if k < 2 {
		return errors.NewConfigurationError("n_splits", k, "must be at least 2")
	}
	if n < k {
		return errors.NewInvalidInputErrorf("KFold", "cannot split %d rows into %d folds", n, k)
	}
	return nil
}
