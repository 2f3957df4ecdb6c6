package tree

import (
	"strings"

	"github.com/ctreelab/arbor/pkg/errors"
	"github.com/ctreelab/arbor/pkg/log"
)

// UnseenPolicy decides what prediction does with a categorical value that has no branch
// at the node it reaches.
type UnseenPolicy int

const (
	// UnseenFallback predicts the reached node's majority class and records the row.
	UnseenFallback UnseenPolicy = iota
	// UnseenFail aborts prediction with an UnseenCategoryError.
	UnseenFail
)

func (p UnseenPolicy) String() string {
	if p == UnseenFail {
		return "fail"
	}
	return "fallback"
}

// ParseUnseenPolicy resolves "fallback" or "fail".
func ParseUnseenPolicy(s string) (UnseenPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fallback", "":
		return UnseenFallback, nil
	case "fail":
		return UnseenFail, nil
	default:
		return UnseenFallback, errors.NewConfigurationError("unseen_policy", s, "expected fallback or fail")
	}
}

const (
	defaultMaxDepth          = 10
	defaultMinSamplesSplit   = 2
	defaultMinSamplesLeaf    = 1
	defaultCriterion         = "gini"
	defaultParallelThreshold = 4096
)

type options struct {
	maxDepth          int
	minSamplesSplit   int
	minSamplesLeaf    int
	criterion         string
	cache             *Cache
	unseen            UnseenPolicy
	logger            log.Logger
	metrics           *FitMetrics
	parallelThreshold int
}

func defaultOptions() *options {
	return &options{
		maxDepth:          defaultMaxDepth,
		minSamplesSplit:   defaultMinSamplesSplit,
		minSamplesLeaf:    defaultMinSamplesLeaf,
		criterion:         defaultCriterion,
		unseen:            UnseenFallback,
		parallelThreshold: defaultParallelThreshold,
	}
}

// Option configures a DecisionTree or a DecisionTreeClassifier.
type Option func(*options)

// WithMaxDepth limits the depth of the tree. The root is at depth 0, so 0 yields a single
// leaf.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum number of rows a node needs to be split.
func WithMinSamplesSplit(n int) Option {
	return func(o *options) {
		o.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum number of rows in every branch of a split.
func WithMinSamplesLeaf(n int) Option {
	return func(o *options) {
		o.minSamplesLeaf = n
	}
}

// WithCriterion selects the criterion of a DecisionTreeClassifier: "gini" (CART),
// "gain_ratio" (C4.5) or "entropy" (ID3). Algorithm names are accepted too. DecisionTree
// ignores it; its algorithm is given to New.
func WithCriterion(criterion string) Option {
	return func(o *options) {
		o.criterion = criterion
	}
}

// WithCache makes the tree use c instead of a private cache.
func WithCache(c *Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithUnseenPolicy sets how prediction treats unseen categorical values.
func WithUnseenPolicy(p UnseenPolicy) Option {
	return func(o *options) {
		o.unseen = p
	}
}

// WithLogger sets the logger used for fit diagnostics.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithFitMetrics records every successful Fit in m.
func WithFitMetrics(m *FitMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithParallelThreshold sets the number of rows above which prediction is spread across
// CPUs. Values below 1 disable parallel prediction.
func WithParallelThreshold(rows int) Option {
	return func(o *options) {
		o.parallelThreshold = rows
	}
}

func (o *options) validate() error {
	if o.maxDepth < 0 {
		return errors.NewConfigurationError("max_depth", o.maxDepth, "must be non-negative")
	}
	if o.minSamplesSplit < 2 {
		return errors.NewConfigurationError("min_samples_split", o.minSamplesSplit, "must be at least 2")
	}
	if o.minSamplesLeaf < 1 {
		return errors.NewConfigurationError("min_samples_leaf", o.minSamplesLeaf, "must be at least 1")
	}
	if o.unseen != UnseenFallback && o.unseen != UnseenFail {
		return errors.NewConfigurationError("unseen_policy", int(o.unseen), "expected UnseenFallback or UnseenFail")
	}
	return nil
}
