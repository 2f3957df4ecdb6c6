package tree

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ctreelab/arbor/core/table"
	"github.com/ctreelab/arbor/pkg/log"
)

// builder grows one tree. It is discarded after the fit that created it.
type builder struct {
	eval            evaluator
	x               *table.Table
	y               []string
	classes         []string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	logger          log.Logger

	importance []float64
	nodes      int
	leaves     int
	depth      int
}

// growth is the result of a completed build.
type growth struct {
	root        Node
	classes     []string
	importances []float64
	nodes       int
	leaves      int
	depth       int
}

func newBuilder(eval evaluator, x *table.Table, y []string, cfg *options, logger log.Logger) *builder {
	return &builder{
		eval:            eval,
		x:               x,
		y:               y,
		classes:         sortedClasses(y),
		maxDepth:        cfg.maxDepth,
		minSamplesSplit: cfg.minSamplesSplit,
		minSamplesLeaf:  cfg.minSamplesLeaf,
		logger:          logger,
		importance:      make([]float64, x.NumColumns()),
	}
}

// run grows the tree over all rows and every column.
func (b *builder) run() growth {
	rows := make([]int, b.x.Rows())
	for i := range rows {
		rows[i] = i
	}
	features := make([]int, b.x.NumColumns())
	for j := range features {
		features[j] = j
	}

	root := b.grow(rows, features, 0, "")

	importances := make([]float64, len(b.importance))
	copy(importances, b.importance)
	if sum := floats.Sum(importances); sum > 0 {
		floats.Scale(1/sum, importances)
	}
	return growth{
		root:        root,
		classes:     b.classes,
		importances: importances,
		nodes:       b.nodes,
		leaves:      b.leaves,
		depth:       b.depth,
	}
}

// grow builds the subtree for rows. An empty row set yields a zero-sample leaf predicting
// parentMajority.
func (b *builder) grow(rows []int, features []int, depth int, parentMajority string) Node {
	if len(rows) == 0 {
		return b.leaf(parentMajority, 0, nil, 0, depth)
	}

	labels := b.labelsOf(rows)
	major := majority(labels)
	impurity := b.eval.impurity(labels)

	if isPure(labels) || len(features) == 0 || depth >= b.maxDepth || len(rows) < b.minSamplesSplit {
		return b.leaf(major, len(rows), labels, impurity, depth)
	}

	best, ok := b.bestSplit(rows, impurity, features)
	if !ok {
		return b.leaf(major, len(rows), labels, impurity, depth)
	}

	if b.logger.Enabled(context.Background(), log.LevelDebug) {
		b.logger.Debug("split selected",
			log.FeatureKey, best.feature,
			log.SplitKey, best.split.String(),
			log.ScoreKey, best.score,
			log.DepthKey, depth,
			log.SamplesKey, len(rows),
		)
	}

	b.importance[best.column] += float64(len(rows)) * best.decrease
	b.nodes++
	b.trackDepth(depth)

	childFeatures := features
	if best.split.Kind == SplitCategorical {
		childFeatures = without(features, best.column)
	}

	children := make([]Branch, len(best.branches))
	for i, br := range best.branches {
		children[i] = Branch{
			Key:   br.key,
			Child: b.grow(br.rows, childFeatures, depth+1, major),
		}
	}
	return newInternal(best.feature, best.split, len(rows), b.countsOf(labels), major, impurity, children)
}

func (b *builder) leaf(label string, samples int, labels []string, impurity float64, depth int) *Leaf {
	b.nodes++
	b.leaves++
	b.trackDepth(depth)
	return &Leaf{
		Label:    label,
		Samples:  samples,
		Counts:   b.countsOf(labels),
		Impurity: impurity,
	}
}

func (b *builder) trackDepth(depth int) {
	if depth > b.depth {
		b.depth = depth
	}
}

func (b *builder) labelsOf(rows []int) []string {
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = b.y[r]
	}
	return labels
}

// countsOf returns the distribution of labels over every training class.
func (b *builder) countsOf(labels []string) []ClassCount {
	counts := make([]ClassCount, len(b.classes))
	for i, c := range b.classes {
		counts[i].Class = c
	}
	for _, l := range labels {
		i := sort.SearchStrings(b.classes, l)
		counts[i].Count++
	}
	return counts
}

func sortedClasses(y []string) []string {
	seen := make(map[string]struct{})
	var classes []string
	for _, l := range y {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			classes = append(classes, l)
		}
	}
	sort.Strings(classes)
	return classes
}

func without(features []int, column int) []int {
	out := make([]int, 0, len(features)-1)
	for _, f := range features {
		if f != column {
			out = append(out, f)
		}
	}
	return out
}
