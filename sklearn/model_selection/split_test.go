package model_selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctreelab/arbor/datasets"
	"github.com/ctreelab/arbor/pkg/errors"
)

func assertPartition(t *testing.T, n int, s Split) {
	t.Helper()
	seen := make([]int, n)
	for _, i := range s.Train {
		seen[i]++
	}
	for _, i := range s.Test {
		seen[i]++
	}
	for i, c := range seen {
		assert.Equal(t, 1, c, "row %d", i)
	}
	assert.IsIncreasing(t, s.Train)
	assert.IsIncreasing(t, s.Test)
}

func classCounts(labels []string, rows []int) map[string]int {
	out := map[string]int{}
	for _, r := range rows {
		out[labels[r]]++
	}
	return out
}

func TestTrainTestSplit(t *testing.T) {
	labels := datasets.LoadCreditRisk().Labels

	s, err := TrainTestSplit(labels, 0.3, 42, false)
	require.NoError(t, err)
	assert.Len(t, s.Test, 9)
	assert.Len(t, s.Train, 21)
	assertPartition(t, 30, s)

	again, err := TrainTestSplit(labels, 0.3, 42, false)
	require.NoError(t, err)
	assert.Equal(t, s, again)

	other, err := TrainTestSplit(labels, 0.3, 7, false)
	require.NoError(t, err)
	assert.NotEqual(t, s.Test, other.Test)
}

func TestTrainTestSplitStratified(t *testing.T) {
	labels := datasets.LoadCreditRisk().Labels

	s, err := TrainTestSplit(labels, 0.3, 42, true)
	require.NoError(t, err)
	assertPartition(t, 30, s)
	// 9 test rows over Alto 10, Baixo 12, Moderado 8.
	assert.Equal(t, map[string]int{"Alto": 3, "Baixo": 4, "Moderado": 2}, classCounts(labels, s.Test))
}

func TestTrainTestSplitErrors(t *testing.T) {
	_, err := TrainTestSplit(nil, 0.3, 1, false)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	for _, size := range []float64{0, 1, -0.2, 1.5} {
		_, err := TrainTestSplit([]string{"a", "b", "c"}, size, 1, false)
		var cfgErr *errors.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr), "test size %v", size)
	}

	_, err = TrainTestSplit([]string{"a", "b"}, 0.9, 1, false)
	assert.Error(t, err)
}

func TestKFold(t *testing.T) {
	folds, err := KFold(10, 3, false, 0)
	require.NoError(t, err)
	require.Len(t, folds, 3)
	assert.Equal(t, []int{0, 1, 2, 3}, folds[0].Test)
	assert.Equal(t, []int{4, 5, 6}, folds[1].Test)
	assert.Equal(t, []int{7, 8, 9}, folds[2].Test)

	shuffled, err := KFold(10, 3, true, 42)
	require.NoError(t, err)
	tested := 0
	for _, f := range shuffled {
		assertPartition(t, 10, f)
		tested += len(f.Test)
	}
	assert.Equal(t, 10, tested)

	_, err = KFold(10, 1, false, 0)
	assert.Error(t, err)
	_, err = KFold(2, 3, false, 0)
	assert.Error(t, err)
}

func TestStratifiedKFold(t *testing.T) {
	labels := datasets.LoadCreditRisk().Labels

	folds, err := StratifiedKFold(labels, 5, true, 42)
	require.NoError(t, err)
	require.Len(t, folds, 5)
	for _, f := range folds {
		assertPartition(t, 30, f)
		assert.Len(t, f.Test, 6)
		for class, n := range classCounts(labels, f.Test) {
			assert.LessOrEqual(t, n, 3, class)
		}
	}
}
