package estimator

import (
	"errors"
	"fmt"
	"math"
)

// Numeric feature names in training order.
const (
	FeatureYear      = "year"
	FeatureKmsDriven = "kms_driven"
)

var numericFeatures = []string{FeatureYear, FeatureKmsDriven}

// StandardScaler standardizes numeric features with training-time statistics.
type StandardScaler struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
}

// NewStandardScaler checks that every statistic is usable.
func NewStandardScaler(features []string, mean, scale []float64) (*StandardScaler, error) {
	s := &StandardScaler{Features: features, Mean: mean, Scale: scale}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *StandardScaler) validate() error {
	if len(s.Features) != len(numericFeatures) {
		return fmt.Errorf("scaler has %d features, expected %v", len(s.Features), numericFeatures)
	}
	for i, f := range numericFeatures {
		if s.Features[i] != f {
			return fmt.Errorf("scaler feature %d is %q, expected %q", i, s.Features[i], f)
		}
	}
	if len(s.Mean) != len(s.Features) || len(s.Scale) != len(s.Features) {
		return errors.New("scaler statistics do not match features")
	}
	for i := range s.Features {
		if math.IsNaN(s.Mean[i]) || math.IsInf(s.Mean[i], 0) {
			return fmt.Errorf("scaler mean for %q is not finite", s.Features[i])
		}
		// a zero deviation would divide by zero on every request
		if !(s.Scale[i] > 0) || math.IsInf(s.Scale[i], 0) {
			return fmt.Errorf("scaler deviation for %q must be positive and finite, got %v", s.Features[i], s.Scale[i])
		}
	}
	return nil
}

// Size is the number of scaled values produced.
func (s *StandardScaler) Size() int {
	return len(s.Features)
}

// Transform returns the standardized year and kilometres driven.
func (s *StandardScaler) Transform(year, kmsDriven int) []float64 {
	return []float64{
		(float64(year) - s.Mean[0]) / s.Scale[0],
		(float64(kmsDriven) - s.Mean[1]) / s.Scale[1],
	}
}
