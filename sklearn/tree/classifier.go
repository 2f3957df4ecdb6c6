package tree

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ctreelab/arbor/core/model"
	"github.com/ctreelab/arbor/core/table"
	"github.com/ctreelab/arbor/pkg/errors"
)

var (
	_ model.Classifier      = (*DecisionTreeClassifier)(nil)
	_ model.ParameterGetter = (*DecisionTreeClassifier)(nil)
	_ model.ParameterSetter = (*DecisionTreeClassifier)(nil)
)

// DecisionTreeClassifier is a scikit-learn style classifier over gonum matrices. Every
// column of X is numeric and y holds numeric class labels in a single column.
type DecisionTreeClassifier struct {
	state *model.StateManager

	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	opts            []Option

	tree       *DecisionTree
	classes_   []float64
	nClasses_  int
	nFeatures_ int
}

// NewDecisionTreeClassifier returns an unfitted classifier. Option values are validated
// by Fit.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}
	return &DecisionTreeClassifier{
		state:           model.NewStateManager("DecisionTreeClassifier"),
		criterion:       cfg.criterion,
		maxDepth:        cfg.maxDepth,
		minSamplesSplit: cfg.minSamplesSplit,
		minSamplesLeaf:  cfg.minSamplesLeaf,
		opts:            opts,
	}
}

// criterionAlgorithm maps a criterion name to the algorithm that optimizes it.
func criterionAlgorithm(criterion string) (Algorithm, error) {
	switch strings.ToLower(criterion) {
	case "gini":
		return CART, nil
	case "gain_ratio":
		return C45, nil
	case "entropy":
		return ID3, nil
	}
	alg, err := ParseAlgorithm(criterion)
	if err != nil {
		return AlgorithmAgnostic, errors.NewValidationError("criterion", "expected gini, gain_ratio or entropy", criterion)
	}
	return alg, nil
}

// Fit builds the tree from X and the column vector y.
func (c *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	const op = "DecisionTreeClassifier.Fit"

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewEmptyInputError(op)
	}
	if yCols != 1 {
		return errors.NewDimensionError(op, 1, yCols, 1)
	}
	if yRows != rows {
		return errors.NewDimensionError(op, rows, yRows, 0)
	}
	if err := errors.CheckMatrix(op, y, yRows, 1); err != nil {
		return err
	}

	alg, err := criterionAlgorithm(c.criterion)
	if err != nil {
		return err
	}
	opts := append(append([]Option(nil), c.opts...),
		WithMaxDepth(c.maxDepth),
		WithMinSamplesSplit(c.minSamplesSplit),
		WithMinSamplesLeaf(c.minSamplesLeaf),
	)
	dt, err := newWithAlgorithm(alg, opts...)
	if err != nil {
		return err
	}

	tbl, err := table.FromMatrix(X, nil)
	if err != nil {
		return err
	}
	labels := make([]string, rows)
	for i := range labels {
		labels[i] = table.FormatNumber(y.At(i, 0))
	}
	if err := dt.Fit(tbl, labels); err != nil {
		return err
	}

	classes := make([]float64, 0, len(dt.Classes()))
	for _, s := range dt.Classes() {
		v, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return errors.Wrapf(perr, "%s: parse class label %q", op, s)
		}
		classes = append(classes, v)
	}
	sort.Float64s(classes)

	c.tree = dt
	c.classes_ = classes
	c.nClasses_ = len(classes)
	c.nFeatures_ = cols
	c.state.SetDimensions(cols, rows)
	c.state.SetFitted()
	return nil
}

func (c *DecisionTreeClassifier) toTable(op, method string, X mat.Matrix) (*table.Table, error) {
	if err := c.state.RequireFitted(method); err != nil {
		return nil, err
	}
	_, cols := X.Dims()
	if cols != c.nFeatures_ {
		return nil, errors.NewDimensionError(op, c.nFeatures_, cols, 1)
	}
	return table.FromMatrix(X, nil)
}

// Predict returns the predicted class of each row as an n x 1 matrix.
func (c *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	tbl, err := c.toTable("DecisionTreeClassifier.Predict", "Predict", X)
	if err != nil {
		return nil, err
	}
	preds, err := c.tree.Predict(tbl)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(preds), 1, nil)
	for i, p := range preds {
		v, perr := strconv.ParseFloat(p, 64)
		if perr != nil {
			return nil, errors.Wrapf(perr, "parse predicted label %q", p)
		}
		out.Set(i, 0, v)
	}
	return out, nil
}

// PredictProba returns the class distribution of the leaf each row reaches, one column
// per class in Classes order.
func (c *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	tbl, err := c.toTable("DecisionTreeClassifier.PredictProba", "PredictProba", X)
	if err != nil {
		return nil, err
	}
	cols, err := c.tree.resolveColumns("DecisionTreeClassifier.PredictProba", tbl)
	if err != nil {
		return nil, err
	}

	// Tree classes are sorted as strings; columns follow numeric order.
	column := make(map[string]int, c.nClasses_)
	for j, v := range c.classes_ {
		column[table.FormatNumber(v)] = j
	}

	n := tbl.Rows()
	out := mat.NewDense(n, c.nClasses_, nil)
	row := make([]float64, c.nClasses_)
	for i := 0; i < n; i++ {
		node := c.tree.reach(cols, i)
		for j := range row {
			row[j] = 0
		}
		for _, cc := range node.ClassCounts() {
			row[column[cc.Class]] = float64(cc.Count)
		}
		if sum := floats.Sum(row); sum > 0 {
			floats.Scale(1/sum, row)
		} else {
			row[column[node.MajorityLabel()]] = 1
		}
		out.SetRow(i, row)
	}
	return out, nil
}

// Score returns the mean accuracy on (X, y), or 0 if prediction fails.
func (c *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	preds, err := c.Predict(X)
	if err != nil {
		return 0
	}
	n, _ := preds.Dims()
	if n == 0 {
		return 0
	}
	correct := 0
	for i := 0; i < n; i++ {
		if preds.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n)
}

// Classes returns the sorted class labels seen during Fit.
func (c *DecisionTreeClassifier) Classes() []float64 {
	return append([]float64(nil), c.classes_...)
}

// GetParams returns the hyperparameters.
func (c *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         c.criterion,
		"max_depth":         c.maxDepth,
		"min_samples_split": c.minSamplesSplit,
		"min_samples_leaf":  c.minSamplesLeaf,
	}
}

// SetParams updates hyperparameters. Unknown keys and values of the wrong type are
// rejected with a ValidationError and leave the classifier unchanged.
func (c *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	next := *c
	for key, value := range params {
		switch key {
		case "criterion":
			v, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			if _, err := criterionAlgorithm(v); err != nil {
				return err
			}
			next.criterion = v
		case "max_depth", "min_samples_split", "min_samples_leaf":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			switch key {
			case "max_depth":
				next.maxDepth = v
			case "min_samples_split":
				next.minSamplesSplit = v
			default:
				next.minSamplesLeaf = v
			}
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}

	probe := &options{
		maxDepth:        next.maxDepth,
		minSamplesSplit: next.minSamplesSplit,
		minSamplesLeaf:  next.minSamplesLeaf,
	}
	if err := probe.validate(); err != nil {
		return err
	}
	c.criterion = next.criterion
	c.maxDepth = next.maxDepth
	c.minSamplesSplit = next.minSamplesSplit
	c.minSamplesLeaf = next.minSamplesLeaf
	return nil
}

// GetDepth returns the depth of the fitted tree.
func (c *DecisionTreeClassifier) GetDepth() int {
	if c.tree == nil {
		return 0
	}
	return c.tree.Depth()
}

// GetNLeaves returns the number of leaves of the fitted tree.
func (c *DecisionTreeClassifier) GetNLeaves() int {
	if c.tree == nil {
		return 0
	}
	return c.tree.NLeaves()
}

// GetFeatureImportances returns the normalized importance of each column of X.
func (c *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	if c.tree == nil {
		return nil
	}
	imp, err := c.tree.FeatureImportances()
	if err != nil {
		return nil
	}
	return imp
}

// Tree returns the underlying DecisionTree, or nil before Fit.
func (c *DecisionTreeClassifier) Tree() *DecisionTree {
	return c.tree
}
