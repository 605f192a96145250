package estimator

import (
	"errors"
	"fmt"
	"math"
)

// Regressor scores a complete feature vector. Implementations must be
// deterministic and must not mutate their weights.
type Regressor interface {
	Predict(features []float64) (float64, error)
	NumFeatures() int
}

// LinearRegression is an ordinary least squares model: coef·x + intercept.
type LinearRegression struct {
	Coef      []float64
	Intercept float64
}

// NewLinearRegression rejects empty or non-finite weights.
func NewLinearRegression(coef []float64, intercept float64) (*LinearRegression, error) {
	if len(coef) == 0 {
		return nil, errors.New("linear model has no coefficients")
	}
	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("linear model coefficient %d is not finite", i)
		}
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, errors.New("linear model intercept is not finite")
	}
	return &LinearRegression{Coef: coef, Intercept: intercept}, nil
}

func (m *LinearRegression) NumFeatures() int {
	return len(m.Coef)
}

func (m *LinearRegression) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coef) {
		return 0, &DimensionError{Want: len(m.Coef), Got: len(features)}
	}
	sum := m.Intercept
	for i, x := range features {
		sum += m.Coef[i] * x
	}
	return sum, nil
}
