package estimator

import "fmt"

// UnknownCategoryError is returned when a categorical value was not seen when
// the encoder was trained. Such values are rejected, never zero-filled.
type UnknownCategoryError struct {
	Feature string
	Value   string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Feature, e.Value)
}

// DimensionError reports a feature vector whose length does not match what
// the consumer expects.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("feature vector has %d values, expected %d", e.Got, e.Want)
}
