// Package tree implements decision tree classifiers grown by ID3, C4.5 or CART over a
// shared memoized impurity cache.
//
// DecisionTree works on mixed categorical and numeric tables:
//
//	dt, err := tree.New("cart", tree.WithMaxDepth(5))
//	if err != nil {
//	    return err
//	}
//	if err := dt.Fit(X, y); err != nil {
//	    return err
//	}
//	preds, err := dt.Predict(XTest)
//
// DecisionTreeClassifier wraps it with a gonum matrix API.
package tree

import (
	"time"

	"github.com/ctreelab/arbor/core/model"
	"github.com/ctreelab/arbor/core/parallel"
	"github.com/ctreelab/arbor/core/table"
	"github.com/ctreelab/arbor/pkg/errors"
	"github.com/ctreelab/arbor/pkg/log"
)

const modelName = "DecisionTree"

// DecisionTree is a classification tree. The zero value is not usable; create one with New.
type DecisionTree struct {
	algorithm Algorithm
	cfg       *options
	cache     *Cache
	logger    log.Logger
	state     *model.StateManager

	root        Node
	schema      []table.Column // names and kinds only
	classes     []string
	importances []float64
	nodes       int
	leaves      int
	depth       int
	lastFit     FitReport
}

// FitReport summarizes the most recent successful Fit.
type FitReport struct {
	Algorithm Algorithm     `json:"algorithm"`
	Samples   int           `json:"samples"`
	Features  int           `json:"features"`
	Duration  time.Duration `json:"duration_ns"`
	Hits      int64         `json:"cache_hits"`
	Misses    int64         `json:"cache_misses"`
	HitRate   float64       `json:"cache_hit_rate"`
	Nodes     int           `json:"nodes"`
	Leaves    int           `json:"leaves"`
	Depth     int           `json:"depth"`
}

// New returns an unfitted tree for the named algorithm ("id3", "c45", "c4.5" or "cart").
func New(algorithm string, opts ...Option) (*DecisionTree, error) {
	alg, err := ParseAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	return newWithAlgorithm(alg, opts...)
}

func newWithAlgorithm(alg Algorithm, opts ...Option) (*DecisionTree, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cache := cfg.cache
	if cache == nil {
		cache = NewCache()
	}
	logger := cfg.logger
	if logger == nil {
		logger = log.GetLoggerWithName("tree")
	}
	return &DecisionTree{
		algorithm: alg,
		cfg:       cfg,
		cache:     cache,
		logger:    logger.With(log.AlgorithmKey, alg.String()),
		state:     model.NewStateManager(modelName),
	}, nil
}

// Algorithm returns the algorithm the tree was created with.
func (t *DecisionTree) Algorithm() Algorithm { return t.algorithm }

// Fit grows a new tree from X and the aligned labels y. On error any previously fitted
// tree is kept.
func (t *DecisionTree) Fit(X *table.Table, y []string) error {
	const op = "DecisionTree.Fit"

	if X == nil || X.Rows() == 0 || len(y) == 0 {
		return errors.NewEmptyInputError(op)
	}
	if X.Rows() != len(y) {
		return errors.NewInvalidInputErrorf(op, "table has %d rows but %d labels were given", X.Rows(), len(y))
	}
	if err := checkFinite(op, X, X.Names()); err != nil {
		return err
	}

	labels := make([]string, len(y))
	copy(labels, y)

	start := time.Now()
	before := t.cache.Stats()

	var result growth
	err := errors.SafeExecute(op, func() error {
		b := newBuilder(evaluator{algorithm: t.algorithm, cache: t.cache}, X, labels, t.cfg, t.logger)
		result = b.run()
		return nil
	})
	if err != nil {
		t.logger.Error("fit failed", err, log.OperationKey, log.OperationFit)
		return err
	}

	t.root = result.root
	t.classes = result.classes
	t.importances = result.importances
	t.nodes = result.nodes
	t.leaves = result.leaves
	t.depth = result.depth
	t.schema = make([]table.Column, X.NumColumns())
	for j := range t.schema {
		c := X.ColumnAt(j)
		t.schema[j] = table.Column{Name: c.Name, Kind: c.Kind}
	}
	t.state.SetDimensions(X.NumColumns(), X.Rows())
	t.state.SetFitted()

	hits, misses, rate := t.cache.Stats().delta(before)
	t.lastFit = FitReport{
		Algorithm: t.algorithm,
		Samples:   X.Rows(),
		Features:  X.NumColumns(),
		Duration:  time.Since(start),
		Hits:      hits,
		Misses:    misses,
		HitRate:   rate,
		Nodes:     result.nodes,
		Leaves:    result.leaves,
		Depth:     result.depth,
	}

	if t.cfg.metrics != nil {
		t.cfg.metrics.observe(t.lastFit)
	}

	t.logger.Info("fit completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, X.Rows(),
		log.FeaturesKey, X.NumColumns(),
		log.ClassesKey, len(result.classes),
		log.NodesKey, result.nodes,
		log.LeavesKey, result.leaves,
		log.DepthKey, result.depth,
		log.DurationMsKey, t.lastFit.Duration.Milliseconds(),
		log.CacheHitsKey, hits,
		log.CacheMissesKey, misses,
		log.CacheHitRateKey, rate,
	)
	return nil
}

// checkFinite rejects NaN and Inf in the numeric columns of X named in names.
func checkFinite(op string, X *table.Table, names []string) error {
	for _, name := range names {
		col, ok := X.Column(name)
		if !ok || col.Kind != table.Numeric {
			continue
		}
		if err := errors.CheckNumericalStability(name, col.Numeric, 0); err != nil {
			var numErr *errors.NumericalInstabilityError
			row := -1
			if errors.As(err, &numErr) {
				row = numErr.Iteration
			}
			return errors.NewInvalidInputErrorf(op, "column %q has a non-finite value at row %d", name, row)
		}
	}
	return nil
}

// Fallback records a row whose categorical value had no branch and was predicted with
// the majority class of the node it reached.
type Fallback struct {
	Row        int    `json:"row"`
	Feature    string `json:"feature"`
	Value      string `json:"value"`
	Prediction string `json:"prediction"`
}

// PredictReport describes what happened during a prediction.
type PredictReport struct {
	Fallbacks []Fallback `json:"fallbacks,omitempty"`
}

// Predict returns one label per row of X.
func (t *DecisionTree) Predict(X *table.Table) ([]string, error) {
	preds, _, err := t.PredictWithReport(X)
	return preds, err
}

// PredictWithReport is Predict plus the rows resolved by the unseen-category fallback.
// Each fallback also raises an UnseenCategoryWarning through errors.Warn.
func (t *DecisionTree) PredictWithReport(X *table.Table) ([]string, PredictReport, error) {
	const op = "DecisionTree.Predict"

	if err := t.state.RequireFitted("Predict"); err != nil {
		return nil, PredictReport{}, err
	}
	cols, err := t.resolveColumns(op, X)
	if err != nil {
		return nil, PredictReport{}, err
	}

	n := X.Rows()
	preds := make([]string, n)
	fallbacks := make([]*Fallback, n)
	fn := func(start, end int) {
		for i := start; i < end; i++ {
			preds[i], fallbacks[i] = t.route(cols, i)
		}
	}
	if t.cfg.parallelThreshold < 1 {
		fn(0, n)
	} else {
		parallel.ParallelizeWithThreshold(n, t.cfg.parallelThreshold, fn)
	}

	var report PredictReport
	for _, fb := range fallbacks {
		if fb == nil {
			continue
		}
		if t.cfg.unseen == UnseenFail {
			return nil, PredictReport{}, errors.NewUnseenCategoryError(fb.Feature, fb.Value, fb.Row)
		}
		errors.Warn(errors.NewUnseenCategoryWarning(fb.Feature, fb.Value, fb.Prediction, fb.Row))
		report.Fallbacks = append(report.Fallbacks, *fb)
	}

	t.logger.Debug("predict completed",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, n,
		log.FallbacksKey, len(report.Fallbacks),
	)
	return preds, report, nil
}

// resolveColumns checks that X has every training column with the training kind and
// returns the columns by name.
func (t *DecisionTree) resolveColumns(op string, X *table.Table) (map[string]table.Column, error) {
	if X == nil {
		return nil, errors.NewInvalidInputError(op, "feature table is nil")
	}
	cols := make(map[string]table.Column, len(t.schema))
	names := make([]string, 0, len(t.schema))
	for _, s := range t.schema {
		c, ok := X.Column(s.Name)
		if !ok {
			return nil, errors.NewInvalidInputErrorf(op, "missing column %q", s.Name)
		}
		if c.Kind != s.Kind {
			return nil, errors.NewInvalidInputErrorf(op, "column %q is %s, was %s during fit", s.Name, c.Kind, s.Kind)
		}
		cols[s.Name] = c
		names = append(names, s.Name)
	}
	if err := checkFinite(op, X, names); err != nil {
		return nil, err
	}
	return cols, nil
}

// route predicts row. A categorical value without a branch stops the walk at the current
// node and yields its majority class together with a fallback record.
func (t *DecisionTree) route(cols map[string]table.Column, row int) (string, *Fallback) {
	node, fb := t.walk(cols, row)
	return node.MajorityLabel(), fb
}

// reach returns the node where the walk for row ends.
func (t *DecisionTree) reach(cols map[string]table.Column, row int) Node {
	node, _ := t.walk(cols, row)
	return node
}

func (t *DecisionTree) walk(cols map[string]table.Column, row int) (Node, *Fallback) {
	node := t.root
	for {
		in, ok := node.(*Internal)
		if !ok {
			return node, nil
		}
		col := cols[in.Feature]

		var key string
		switch in.Split.Kind {
		case SplitContinuous:
			key = KeyGreater
			if col.Numeric[row] <= in.Split.Threshold {
				key = KeyLessEqual
			}
		case SplitCategoricalBinary:
			key = KeyNotEqual
			if col.StringAt(row) == in.Split.Value {
				key = KeyEqual
			}
		default:
			key = col.StringAt(row)
		}

		child, ok := in.Child(key)
		if !ok {
			return in, &Fallback{
				Row:        row,
				Feature:    in.Feature,
				Value:      key,
				Prediction: in.Majority,
			}
		}
		node = child
	}
}

// Root returns the root of the fitted tree, or nil before Fit.
func (t *DecisionTree) Root() Node { return t.root }

// Classes returns the sorted training labels.
func (t *DecisionTree) Classes() []string { return t.classes }

// FeatureNames returns the training column names in table order.
func (t *DecisionTree) FeatureNames() []string {
	names := make([]string, len(t.schema))
	for i, c := range t.schema {
		names[i] = c.Name
	}
	return names
}

// FeatureImportances returns the normalized total impurity decrease contributed by each
// feature, aligned with FeatureNames. All zeros means the root is a leaf.
func (t *DecisionTree) FeatureImportances() ([]float64, error) {
	if err := t.state.RequireFitted("FeatureImportances"); err != nil {
		return nil, err
	}
	out := make([]float64, len(t.importances))
	copy(out, t.importances)
	return out, nil
}

// Depth returns the depth of the deepest node. A single-leaf tree has depth 0.
func (t *DecisionTree) Depth() int { return t.depth }

// NLeaves returns the number of leaves.
func (t *DecisionTree) NLeaves() int { return t.leaves }

// NodeCount returns the number of nodes, leaves included.
func (t *DecisionTree) NodeCount() int { return t.nodes }

// CacheStats returns the cumulative statistics of the tree's cache.
func (t *DecisionTree) CacheStats() CacheStats { return t.cache.Stats() }

// Cache returns the cache used by the tree.
func (t *DecisionTree) Cache() *Cache { return t.cache }

// LastFit returns the report of the last successful Fit.
func (t *DecisionTree) LastFit() FitReport { return t.lastFit }

// IsFitted reports whether Fit has succeeded at least once.
func (t *DecisionTree) IsFitted() bool { return t.state.IsFitted() }
