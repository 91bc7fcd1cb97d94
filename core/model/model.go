// Package model provides the shared fitted-state tracking for the
// pipeline's estimator-like components (the cleaner and the classifier).
package model

import (
	"github.com/YuminosukeSato/liftclass/pkg/errors"
)

// EstimatorState represents the training state of a component.
type EstimatorState int

const (
	// NotFitted means the component has not been fitted yet.
	NotFitted EstimatorState = iota
	// Fitted means the component has been fitted.
	Fitted
)

// BaseEstimator is embedded by components that must be fitted before use.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the component has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the component as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the component to its initial state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// RequireFitted returns a NotFittedError naming the component and the
// method being called when the component has not been fitted.
func (e *BaseEstimator) RequireFitted(name, method string) error {
	if !e.IsFitted() {
		return errors.NewNotFittedError(name, method)
	}
	return nil
}
