package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewConfigurationError(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		value   interface{}
		reason  string
		wantMsg string
	}{
		{
			name:    "unknown algorithm",
			param:   "algorithm",
			value:   "random_forest",
			reason:  "expected one of id3, c45, cart",
			wantMsg: "arbor: invalid configuration for 'algorithm': expected one of id3, c45, cart (got: random_forest)",
		},
		{
			name:    "negative depth",
			param:   "max_depth",
			value:   -1,
			reason:  "must be non-negative",
			wantMsg: "arbor: invalid configuration for 'max_depth': must be non-negative (got: -1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigurationError(tt.param, tt.value, tt.reason)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var cfgErr *ConfigurationError
			if !As(err, &cfgErr) {
				t.Fatal("Error should be castable to *ConfigurationError")
			}
			if cfgErr.Param != tt.param {
				t.Errorf("Param = %v, want %v", cfgErr.Param, tt.param)
			}
		})
	}
}

func TestConfigurationErrorHint(t *testing.T) {
	err := NewConfigurationErrorWithHint("algorithm", "xgb", "unknown algorithm", "use id3, c45 or cart")

	var cfgErr *ConfigurationError
	if !As(err, &cfgErr) {
		t.Fatal("Error should be castable to *ConfigurationError")
	}

	hints := GetAllHints(err)
	if len(hints) != 1 || hints[0] != "use id3, c45 or cart" {
		t.Errorf("GetAllHints() = %v", hints)
	}
}

func TestNewInvalidInputError(t *testing.T) {
	err := NewInvalidInputErrorf("DecisionTree.Fit", "%d labels for %d rows", 3, 4)

	want := "arbor: DecisionTree.Fit: invalid input: 3 labels for 4 rows"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var inputErr *InvalidInputError
	if !As(err, &inputErr) {
		t.Error("Error should be castable to *InvalidInputError")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 10, 8, 0)

	want := "arbor: Predict: dimension mismatch on axis 0 (rows). Expected 10, got 8"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("DecisionTree", "Predict")

	want := "arbor: DecisionTree: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewUnseenCategoryError(t *testing.T) {
	err := NewUnseenCategoryError("color", "purple", 3)

	want := `arbor: unseen value "purple" for feature "color" at row 3`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var unseenErr *UnseenCategoryError
	if !As(err, &unseenErr) {
		t.Fatal("Error should be castable to *UnseenCategoryError")
	}
	if unseenErr.Row != 3 {
		t.Errorf("Row = %d, want 3", unseenErr.Row)
	}
}

func TestWarnRoutesToHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(nil)

	Warn(NewUnseenCategoryWarning("color", "purple", "yes", 0))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
	want := `unseen value "purple" for feature "color" at row 0; predicted majority class "yes"`
	if got[0].Error() != want {
		t.Errorf("Error() = %v, want %v", got[0].Error(), want)
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "in DecisionTree.Fit")

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in DecisionTree.Fit") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("age", []float64{1, 2, 3}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nan := 0.0
	nan = nan / nan
	err := CheckNumericalStability("age", []float64{1, nan, 3}, 10)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected *NumericalInstabilityError, got %T", err)
	}
	if numErr.Iteration != 11 {
		t.Errorf("Iteration = %d, want 11", numErr.Iteration)
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(1, 0); got != 0 {
		t.Errorf("SafeDivide(1, 0) = %v, want 0", got)
	}
	if got := SafeDivide(1, 4); got != 0.25 {
		t.Errorf("SafeDivide(1, 4) = %v, want 0.25", got)
	}
}

func TestNewEmptyInputError(t *testing.T) {
	err := NewEmptyInputError("DecisionTree.Fit")

	if !Is(err, ErrEmptyData) {
		t.Error("Expected Is(err, ErrEmptyData) to be true")
	}
	var inputErr *InvalidInputError
	if !As(err, &inputErr) {
		t.Fatal("Error should be castable to *InvalidInputError")
	}
	if inputErr.Op != "DecisionTree.Fit" {
		t.Errorf("Op = %v, want DecisionTree.Fit", inputErr.Op)
	}
}
