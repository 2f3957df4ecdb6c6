// Package model declares the estimator interfaces implemented by arbor classifiers and the
// fitted-state bookkeeping they share.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is a model that learns from a feature matrix and a single column of labels.
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor predicts one label per row of X, returned as an n x 1 matrix.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer returns the mean accuracy of the model on (X, y).
type Scorer interface {
	Score(X, y mat.Matrix) float64
}

// Classifier combines the interfaces for classification models.
type Classifier interface {
	Fitter
	Predictor
	Scorer

	// PredictProba returns one column per class, ordered as Classes.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the sorted labels seen during fitting.
	Classes() []float64
}

// ParameterGetter is the interface for models that expose their hyperparameters.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow hyperparameter modification.
type ParameterSetter interface {
	SetParams(params map[string]interface{}) error
}
