// Package pricing turns validated requests into rounded price estimates.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/parts-pile/valuator/cache"
	"github.com/parts-pile/valuator/estimator"
	"github.com/shopspring/decimal"
)

// PriceDecimals is the number of decimal places reported to callers.
const PriceDecimals = 2

// Service runs the encode, scale and predict steps for one request. It holds
// no mutable state apart from the optional memo cache, so a single Service is
// shared by all requests.
type Service struct {
	pipeline estimator.Pipeline
	timeout  time.Duration
	memo     *cache.Cache[decimal.Decimal]
	// ristretto's Clear must not overlap Get or Set
	memoMu sync.RWMutex
}

// NewService wires a pipeline with a per-request timeout. memo may be nil.
func NewService(pipeline estimator.Pipeline, timeout time.Duration, memo *cache.Cache[decimal.Decimal]) *Service {
	return &Service{pipeline: pipeline, timeout: timeout, memo: memo}
}

// Estimate returns the price for req rounded to two decimals. Errors are
// *estimator.UnknownCategoryError for values outside the trained vocabulary
// and *InternalError for everything else.
func (s *Service) Estimate(ctx context.Context, req Request) (decimal.Decimal, error) {
	key := req.cacheKey()
	if price, ok := s.memoGet(key); ok {
		return price, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	encoded, err := s.pipeline.Encode(req.Company, req.Name, req.FuelType)
	if err != nil {
		var unknown *estimator.UnknownCategoryError
		if errors.As(err, &unknown) {
			return decimal.Decimal{}, err
		}
		return decimal.Decimal{}, &InternalError{Op: "encode", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return decimal.Decimal{}, &InternalError{Op: "encode", Err: err}
	}

	scaled := s.pipeline.Scale(req.Year, req.KmsDriven)

	features := make([]float64, 0, len(encoded)+len(scaled))
	features = append(features, encoded...)
	features = append(features, scaled...)

	raw, err := s.pipeline.Predict(features)
	if err != nil {
		return decimal.Decimal{}, &InternalError{Op: "predict", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return decimal.Decimal{}, &InternalError{Op: "predict", Err: err}
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return decimal.Decimal{}, &InternalError{Op: "predict", Err: fmt.Errorf("model returned %v", raw)}
	}

	price := decimal.NewFromFloat(raw).Round(PriceDecimals)
	s.memoSet(key, price)
	return price, nil
}

func (s *Service) memoGet(key string) (decimal.Decimal, bool) {
	if s.memo == nil {
		return decimal.Decimal{}, false
	}
	s.memoMu.RLock()
	defer s.memoMu.RUnlock()
	return s.memo.Get(key)
}

func (s *Service) memoSet(key string, price decimal.Decimal) {
	if s.memo == nil {
		return
	}
	s.memoMu.RLock()
	defer s.memoMu.RUnlock()
	s.memo.Set(key, price)
}

// CacheStats reports the memo cache metrics, or false when memoization is off.
func (s *Service) CacheStats() (cache.Stats, bool) {
	if s.memo == nil {
		return cache.Stats{}, false
	}
	return s.memo.Stats(), true
}

// ClearCache drops every memoized estimate.
func (s *Service) ClearCache() {
	if s.memo == nil {
		return
	}
	s.memoMu.Lock()
	s.memo.Clear()
	s.memoMu.Unlock()
	log.Printf("[cache] Prediction cache cleared")
}

// FormatPrice renders price as a JSON number with exactly two decimals.
func FormatPrice(price decimal.Decimal) json.Number {
	return json.Number(price.StringFixed(PriceDecimals))
}
