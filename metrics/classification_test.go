package metrics

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ctreelab/arbor/pkg/errors"
)

var (
	yTrue = []string{"cat", "cat", "cat", "dog", "dog", "bird"}
	yPred = []string{"cat", "cat", "dog", "dog", "cat", "bird"}
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []string
		yPred   []string
		want    float64
		wantErr bool
	}{
		{name: "Perfect", yTrue: []string{"a", "b"}, yPred: []string{"a", "b"}, want: 1},
		{name: "Mixed", yTrue: yTrue, yPred: yPred, want: 4.0 / 6.0},
		{name: "All wrong", yTrue: []string{"a", "a"}, yPred: []string{"b", "b"}, want: 0},
		{name: "Dimension mismatch", yTrue: []string{"a", "b"}, yPred: []string{"a"}, wantErr: true},
		{name: "Empty", yTrue: nil, yPred: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}

	_, err := Accuracy(nil, nil)
	if !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}
}

func TestConfusionMatrix(t *testing.T) {
	cm, err := ConfusionMatrix(yTrue, yPred, nil)
	if err != nil {
		t.Fatalf("ConfusionMatrix() error = %v", err)
	}
	// labels: bird, cat, dog
	want := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 2, 1,
		0, 1, 1,
	})
	if !mat.Equal(cm, want) {
		t.Errorf("ConfusionMatrix() =\n%v\nwant\n%v", mat.Formatted(cm), mat.Formatted(want))
	}

	// Labels outside the given set are ignored.
	cm, err = ConfusionMatrix(yTrue, yPred, []string{"dog", "cat"})
	if err != nil {
		t.Fatalf("ConfusionMatrix() error = %v", err)
	}
	if !mat.Equal(cm, mat.NewDense(2, 2, []float64{1, 1, 1, 2})) {
		t.Errorf("ConfusionMatrix() with labels =\n%v", mat.Formatted(cm))
	}

	if _, err := ConfusionMatrix(yTrue, yPred, []string{"cat", "cat"}); err == nil {
		t.Error("expected an error for duplicate labels")
	}
	if _, err := ConfusionMatrix(yTrue, yPred[:2], nil); err == nil {
		t.Error("expected an error for misaligned inputs")
	}
}

func TestClassificationReport(t *testing.T) {
	r, err := ClassificationReport(yTrue, yPred)
	if err != nil {
		t.Fatalf("ClassificationReport() error = %v", err)
	}
	if len(r.Classes) != 3 {
		t.Fatalf("expected 3 classes, got %d", len(r.Classes))
	}

	cat := r.Classes[1]
	if cat.Label != "cat" || cat.Support != 3 {
		t.Errorf("unexpected cat row %+v", cat)
	}
	// cat: tp=2, predicted=3, actual=3
	if math.Abs(cat.Precision-2.0/3.0) > 1e-12 || math.Abs(cat.Recall-2.0/3.0) > 1e-12 {
		t.Errorf("cat precision/recall = %v/%v", cat.Precision, cat.Recall)
	}
	dog := r.Classes[2]
	if math.Abs(dog.F1-0.5) > 1e-12 {
		t.Errorf("dog F1 = %v, want 0.5", dog.F1)
	}

	// weighted recall equals accuracy
	if math.Abs(r.Weighted.Recall-r.Accuracy) > 1e-12 {
		t.Errorf("weighted recall %v != accuracy %v", r.Weighted.Recall, r.Accuracy)
	}
	wantMacroF1 := (1.0 + 2.0/3.0 + 0.5) / 3
	if math.Abs(r.Macro.F1-wantMacroF1) > 1e-12 {
		t.Errorf("macro F1 = %v, want %v", r.Macro.F1, wantMacroF1)
	}

	out := r.String()
	for _, s := range []string{"precision", "accuracy", "weighted", "macro", "bird"} {
		if !strings.Contains(out, s) {
			t.Errorf("report missing %q:\n%s", s, out)
		}
	}
}

func TestPrecisionRecallF1(t *testing.T) {
	// A class that is never predicted has precision 0.
	p, r, f1, err := PrecisionRecallF1([]string{"a", "b"}, []string{"a", "a"}, AverageWeighted)
	if err != nil {
		t.Fatalf("PrecisionRecallF1() error = %v", err)
	}
	if math.Abs(p-0.25) > 1e-12 || math.Abs(r-0.5) > 1e-12 || math.Abs(f1-1.0/3.0) > 1e-12 {
		t.Errorf("PrecisionRecallF1() = %v, %v, %v", p, r, f1)
	}

	p, _, _, err = PrecisionRecallF1(yTrue, yPred, AverageMacro)
	if err != nil {
		t.Fatalf("PrecisionRecallF1() error = %v", err)
	}
	if math.Abs(p-(1.0+2.0/3.0+0.5)/3) > 1e-12 {
		t.Errorf("macro precision = %v", p)
	}

	if _, _, _, err := PrecisionRecallF1(yTrue, yPred, "micro"); err == nil {
		t.Error("expected an error for an unsupported average")
	}
}

func BenchmarkClassificationReport(b *testing.B) {
	labels := []string{"a", "b", "c", "d"}
	n := 10000
	yt := make([]string, n)
	yp := make([]string, n)
	for i := 0; i < n; i++ {
		yt[i] = labels[i%4]
		yp[i] = labels[(i/3)%4]
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ClassificationReport(yt, yp)
	}
}
