package estimator

import (
	"errors"
	"fmt"
)

// Categorical feature names in the order the encoder was trained with.
const (
	FeatureName     = "name"
	FeatureCompany  = "company"
	FeatureFuelType = "fuel_type"
)

var categoricalFeatures = []string{FeatureName, FeatureCompany, FeatureFuelType}

// OneHotEncoder maps categorical values to indicator blocks, one block per
// feature, using a vocabulary frozen at training time.
type OneHotEncoder struct {
	Features   []string   `json:"features"`
	Categories [][]string `json:"categories"`

	offsets []int
	index   []map[string]int
	size    int
}

// NewOneHotEncoder validates the vocabulary and prepares lookup tables.
func NewOneHotEncoder(features []string, categories [][]string) (*OneHotEncoder, error) {
	e := &OneHotEncoder{Features: features, Categories: categories}
	if err := e.init(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *OneHotEncoder) init() error {
	if len(e.Features) != len(categoricalFeatures) {
		return fmt.Errorf("encoder has %d features, expected %v", len(e.Features), categoricalFeatures)
	}
	for i, f := range categoricalFeatures {
		if e.Features[i] != f {
			return fmt.Errorf("encoder feature %d is %q, expected %q", i, e.Features[i], f)
		}
	}
	if len(e.Categories) != len(e.Features) {
		return errors.New("encoder categories do not match features")
	}

	e.offsets = make([]int, len(e.Features))
	e.index = make([]map[string]int, len(e.Features))
	e.size = 0
	for i, cats := range e.Categories {
		if len(cats) == 0 {
			return fmt.Errorf("encoder feature %q has no categories", e.Features[i])
		}
		e.offsets[i] = e.size
		e.index[i] = make(map[string]int, len(cats))
		for j, c := range cats {
			if _, dup := e.index[i][c]; dup {
				return fmt.Errorf("encoder feature %q has duplicate category %q", e.Features[i], c)
			}
			e.index[i][c] = j
		}
		e.size += len(cats)
	}
	return nil
}

// Size is the length of every encoded vector.
func (e *OneHotEncoder) Size() int {
	return e.size
}

// Encode returns the indicator vector for one vehicle. A value outside the
// trained vocabulary yields *UnknownCategoryError.
func (e *OneHotEncoder) Encode(company, name, fuelType string) ([]float64, error) {
	values := map[string]string{
		FeatureName:     name,
		FeatureCompany:  company,
		FeatureFuelType: fuelType,
	}

	vec := make([]float64, e.size)
	for i, feature := range e.Features {
		value := values[feature]
		j, ok := e.index[i][value]
		if !ok {
			return nil, &UnknownCategoryError{Feature: feature, Value: value}
		}
		vec[e.offsets[i]+j] = 1
	}
	return vec, nil
}

// Knows reports whether value is in the vocabulary of feature.
func (e *OneHotEncoder) Knows(feature, value string) bool {
	for i, f := range e.Features {
		if f == feature {
			_, ok := e.index[i][value]
			return ok
		}
	}
	return false
}
