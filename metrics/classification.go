// Package metrics scores label predictions against ground truth.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ctreelab/arbor/pkg/errors"
)

// Averaging strategies for PrecisionRecallF1.
const (
	AverageWeighted = "weighted"
	AverageMacro    = "macro"
)

func checkPair(op string, yTrue, yPred []string) error {
	if len(yTrue) == 0 {
		return errors.NewEmptyInputError(op)
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}

// Accuracy returns the fraction of predictions equal to the true label.
func Accuracy(yTrue, yPred []string) (float64, error) {
	if err := checkPair("Accuracy", yTrue, yPred); err != nil {
		return 0, err
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// Labels returns the sorted union of the labels in yTrue and yPred.
func Labels(yTrue, yPred []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ys := range [][]string{yTrue, yPred} {
		for _, y := range ys {
			if _, ok := seen[y]; !ok {
				seen[y] = struct{}{}
				out = append(out, y)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ConfusionMatrix counts true labels (rows) against predicted labels (columns), both in
// labels order. Pairs involving a label outside labels are ignored. A nil labels uses
// Labels(yTrue, yPred).
func ConfusionMatrix(yTrue, yPred, labels []string) (*mat.Dense, error) {
	if err := checkPair("ConfusionMatrix", yTrue, yPred); err != nil {
		return nil, err
	}
	if labels == nil {
		labels = Labels(yTrue, yPred)
	}
	if len(labels) == 0 {
		return nil, errors.NewInvalidInputError("ConfusionMatrix", "labels is empty")
	}
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := index[l]; dup {
			return nil, errors.NewInvalidInputErrorf("ConfusionMatrix", "duplicate label %q", l)
		}
		index[l] = i
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for k := range yTrue {
		i, ok := index[yTrue[k]]
		if !ok {
			continue
		}
		j, ok := index[yPred[k]]
		if !ok {
			continue
		}
		cm.Set(i, j, cm.At(i, j)+1)
	}
	return cm, nil
}

// ClassScores are the one-vs-rest scores of a class. Undefined ratios are 0.
type ClassScores struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is a per-class breakdown plus averages.
type Report struct {
	Classes  []ClassScores `json:"classes"`
	Accuracy float64       `json:"accuracy"`
	Macro    ClassScores   `json:"macro_avg"`
	Weighted ClassScores   `json:"weighted_avg"`
}

// ClassificationReport computes per-class precision, recall, F1 and support over
// Labels(yTrue, yPred), with macro and support-weighted averages.
func ClassificationReport(yTrue, yPred []string) (*Report, error) {
	labels := Labels(yTrue, yPred)
	cm, err := ConfusionMatrix(yTrue, yPred, labels)
	if err != nil {
		return nil, err
	}

	k := len(labels)
	r := &Report{Classes: make([]ClassScores, k)}
	precision := make([]float64, k)
	recall := make([]float64, k)
	f1 := make([]float64, k)
	support := make([]float64, k)
	correct := 0.0
	for i, label := range labels {
		tp := cm.At(i, i)
		predicted := mat.Sum(cm.ColView(i))
		actual := mat.Sum(cm.RowView(i))
		correct += tp

		precision[i] = ratio(tp, predicted)
		recall[i] = ratio(tp, actual)
		f1[i] = ratio(2*precision[i]*recall[i], precision[i]+recall[i])
		support[i] = actual
		r.Classes[i] = ClassScores{
			Label:     label,
			Precision: precision[i],
			Recall:    recall[i],
			F1:        f1[i],
			Support:   int(actual),
		}
	}

	n := len(yTrue)
	r.Accuracy = correct / float64(n)
	r.Macro = ClassScores{
		Label:     AverageMacro,
		Precision: stat.Mean(precision, nil),
		Recall:    stat.Mean(recall, nil),
		F1:        stat.Mean(f1, nil),
		Support:   n,
	}
	r.Weighted = ClassScores{
		Label:     AverageWeighted,
		Precision: stat.Mean(precision, support),
		Recall:    stat.Mean(recall, support),
		F1:        stat.Mean(f1, support),
		Support:   n,
	}
	return r, nil
}

// PrecisionRecallF1 returns the averaged precision, recall and F1 score. average is
// AverageWeighted or AverageMacro.
func PrecisionRecallF1(yTrue, yPred []string, average string) (precision, recall, f1 float64, err error) {
	if average != AverageWeighted && average != AverageMacro {
		return 0, 0, 0, errors.NewValidationError("average", "expected weighted or macro", average)
	}
	r, err := ClassificationReport(yTrue, yPred)
	if err != nil {
		return 0, 0, 0, err
	}
	s := r.Weighted
	if average == AverageMacro {
		s = r.Macro
	}
	return s.Precision, s.Recall, s.F1, nil
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// String renders the report as a fixed-width table.
func (r *Report) String() string {
	width := len(AverageWeighted)
	for _, c := range r.Classes {
		if len(c.Label) > width {
			width = len(c.Label)
		}
	}

	var sb strings.Builder
	row := func(c ClassScores) {
		fmt.Fprintf(&sb, "%*s %9.2f %9.2f %9.2f %9d\n", width, c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintf(&sb, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		row(c)
	}
	total := 0
	if len(r.Classes) > 0 {
		total = r.Weighted.Support
	}
	fmt.Fprintf(&sb, "\n%*s %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, total)
	row(r.Macro)
	row(r.Weighted)
	return sb.String()
}
