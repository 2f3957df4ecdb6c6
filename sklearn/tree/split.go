package tree

import (
	"strconv"

	"github.com/ctreelab/arbor/pkg/errors"
)

// scoreTolerance is the largest score still treated as "no improvement".
const scoreTolerance = 1e-12

// SplitKind discriminates the variants of Split.
type SplitKind int

const (
	// SplitCategorical has one branch per observed value of the feature.
	SplitCategorical SplitKind = iota
	// SplitCategoricalBinary has two branches: rows equal to Value, and all others.
	SplitCategoricalBinary
	// SplitContinuous has two branches: rows with value <= Threshold, and all others.
	SplitContinuous
)

func (k SplitKind) String() string {
	switch k {
	case SplitCategorical:
		return "categorical"
	case SplitCategoricalBinary:
		return "categorical_binary"
	case SplitContinuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// Branch keys of binary splits.
const (
	KeyLessEqual = "<="
	KeyGreater   = ">"
	KeyEqual     = "=="
	KeyNotEqual  = "!="
)

// Split describes how an internal node routes rows. Value is set only for
// SplitCategoricalBinary and Threshold only for SplitContinuous.
type Split struct {
	Kind      SplitKind
	Value     string
	Threshold float64
}

// CategoricalSplit returns a multiway split.
func CategoricalSplit() Split { return Split{Kind: SplitCategorical} }

// BinarySplit returns a split testing equality with value.
func BinarySplit(value string) Split { return Split{Kind: SplitCategoricalBinary, Value: value} }

// ContinuousSplit returns a split on threshold.
func ContinuousSplit(threshold float64) Split {
	return Split{Kind: SplitContinuous, Threshold: threshold}
}

// String renders the test applied at the node, without the feature name.
func (s Split) String() string {
	switch s.Kind {
	case SplitCategoricalBinary:
		return KeyEqual + " " + s.Value
	case SplitContinuous:
		return KeyLessEqual + " " + strconv.FormatFloat(s.Threshold, 'f', 2, 64)
	default:
		return "categorical"
	}
}

// edgeLabel renders the condition leading to the child under key.
func (s Split) edgeLabel(key string) string {
	switch s.Kind {
	case SplitCategoricalBinary:
		return key + " " + s.Value
	case SplitContinuous:
		return key + " " + strconv.FormatFloat(s.Threshold, 'f', 2, 64)
	default:
		return key
	}
}

// evaluator scores candidate partitions of a node for one algorithm. All impurities go
// through the cache.
type evaluator struct {
	algorithm Algorithm
	cache     *Cache
}

// impurity returns the node impurity the algorithm reduces.
func (e evaluator) impurity(labels []string) float64 {
	return e.cache.Impurity(labels, e.algorithm.impurityKind(), e.algorithm)
}

// evaluate scores a partition of n parent rows into branches. decrease is the parent
// impurity minus the size-weighted child impurity. score equals decrease for ID3 and CART,
// and is the gain ratio for C4.5, which is 0 when there is no gain or no split information.
func (e evaluator) evaluate(parent float64, n int, feature string, branches [][]string) (score, decrease float64) {
	if n == 0 {
		return 0, 0
	}
	weighted := 0.0
	sizes := make([]int, 0, len(branches))
	for _, b := range branches {
		if len(b) == 0 {
			continue
		}
		weighted += float64(len(b)) / float64(n) * e.impurity(b)
		sizes = append(sizes, len(b))
	}
	decrease = parent - weighted

	if e.algorithm != C45 {
		return decrease, decrease
	}
	if decrease <= scoreTolerance {
		return 0, decrease
	}
	splitInfo := e.cache.SplitInformation(sizes, feature, e.algorithm)
	return errors.SafeDivide(decrease, splitInfo), decrease
}
