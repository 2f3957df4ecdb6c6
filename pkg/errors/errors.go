// Package errors provides the error and warning taxonomy shared by every arbor package.
// Errors are structured types carrying a stack trace from cockroachdb/errors, and each
// type can marshal itself into a zerolog event.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("arbor-warning: %v\n", w)
	}
	// zerologWarnFunc is installed by pkg/log to avoid an import cycle.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the handler that receives every warning raised through Warn.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog based warning sink. It takes precedence over the
// handler set with SetWarningHandler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn raises a warning. Warnings never change a computed result.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// UnseenCategoryWarning reports that a prediction met a categorical value that no branch
// of the reached node knows about, and was resolved with that node's majority class.
type UnseenCategoryWarning struct {
	Feature  string
	Value    string
	Fallback string
	Row      int
}

func (w *UnseenCategoryWarning) Error() string {
	return fmt.Sprintf("unseen value %q for feature %q at row %d; predicted majority class %q",
		w.Value, w.Feature, w.Row, w.Fallback)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *UnseenCategoryWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("feature", w.Feature).
		Str("value", w.Value).
		Str("fallback", w.Fallback).
		Int("row", w.Row).
		Str("type", "UnseenCategoryWarning")
}

// NewUnseenCategoryWarning creates a new UnseenCategoryWarning.
func NewUnseenCategoryWarning(feature, value, fallback string, row int) *UnseenCategoryWarning {
	return &UnseenCategoryWarning{Feature: feature, Value: value, Fallback: fallback, Row: row}
}

// ===========================================================================
//
//	Structured errors
//
// ===========================================================================

// ConfigurationError reports an invalid estimator configuration, such as an unknown
// algorithm name or an out of range hyperparameter.
type ConfigurationError struct {
	Param  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("arbor: invalid configuration for '%s': %s (got: %v)", e.Param, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Interface("value", e.Value).
		Str("reason", e.Reason).
		Str("type", "ConfigurationError")
}

// NewConfigurationError creates a ConfigurationError with a stack trace.
func NewConfigurationError(param string, value interface{}, reason string) error {
	err := &ConfigurationError{Param: param, Value: value, Reason: reason}
	return errors.WithStack(err)
}

// NewConfigurationErrorWithHint is NewConfigurationError plus a user facing hint,
// retrievable with GetAllHints.
func NewConfigurationErrorWithHint(param string, value interface{}, reason, hint string) error {
	return errors.WithHint(NewConfigurationError(param, value, reason), hint)
}

// InvalidInputError reports training or prediction data that cannot be used: empty tables,
// misaligned labels, missing columns, non-finite values.
type InvalidInputError struct {
	Op     string
	Reason string
	Cause  error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("arbor: %s: invalid input: %s", e.Op, e.Reason)
}

// Unwrap returns the sentinel cause, if any.
func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *InvalidInputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "InvalidInputError")
}

// NewInvalidInputError creates an InvalidInputError with a stack trace.
func NewInvalidInputError(op, reason string) error {
	err := &InvalidInputError{Op: op, Reason: reason}
	return errors.WithStack(err)
}

// NewEmptyInputError is an InvalidInputError whose cause is ErrEmptyData.
func NewEmptyInputError(op string) error {
	err := &InvalidInputError{Op: op, Reason: "empty feature table or labels", Cause: ErrEmptyData}
	return errors.WithStack(err)
}

// NewInvalidInputErrorf is NewInvalidInputError with a formatted reason.
func NewInvalidInputErrorf(op, format string, args ...interface{}) error {
	return NewInvalidInputError(op, fmt.Sprintf(format, args...))
}

// NotFittedError is returned when Predict or a structure export is called before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("arbor: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// UnseenCategoryError is returned instead of a majority-class fallback when the estimator
// is configured to fail on categorical values it never saw during training.
type UnseenCategoryError struct {
	Feature string
	Value   string
	Row     int
}

func (e *UnseenCategoryError) Error() string {
	return fmt.Sprintf("arbor: unseen value %q for feature %q at row %d", e.Value, e.Feature, e.Row)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *UnseenCategoryError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("feature", e.Feature).
		Str("value", e.Value).
		Int("row", e.Row).
		Str("type", "UnseenCategoryError")
}

// NewUnseenCategoryError creates an UnseenCategoryError with a stack trace.
func NewUnseenCategoryError(feature, value string, row int) error {
	err := &UnseenCategoryError{Feature: feature, Value: value, Row: row}
	return errors.WithStack(err)
}

// DimensionError reports a shape mismatch between two inputs.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("arbor: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError reports a parameter that failed validation in SetParams style APIs.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("arbor: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// NumericalInstabilityError reports NaN or Inf values met during a computation.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("arbor: numerical instability detected in %s at index %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a stack trace.
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// GetAllHints returns the hints attached anywhere in err's chain.
func GetAllHints(err error) []string {
	return errors.GetAllHints(err)
}

// ===========================================================================
//
//	Sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is the cause of errors returned for empty training or prediction data.
	ErrEmptyData = New("empty data")
)
