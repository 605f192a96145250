// Package estimator holds the trained preprocessing and regression artifacts
// and scores feature vectors with them.
package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
)

// Artifact blob names, relative to the artifact source.
const (
	EncoderFile = "encoder.json"
	ScalerFile  = "scaler.json"
	ModelFile   = "model.json"
)

// ModelTypeLinear is the only regressor family currently shipped.
const ModelTypeLinear = "linear"

// Pipeline is the transform contract the API layer depends on. Any model
// family can be substituted as long as it provides these three steps.
type Pipeline interface {
	Encode(company, name, fuelType string) ([]float64, error)
	Scale(year, kmsDriven int) []float64
	Predict(features []float64) (float64, error)
}

// Artifacts bundles the encoder, scaler and regressor produced by training.
// They are loaded once and only read afterwards.
type Artifacts struct {
	Encoder *OneHotEncoder
	Scaler  *StandardScaler
	Model   Regressor
}

var _ Pipeline = (*Artifacts)(nil)

// New checks that the encoded and scaled segments together have exactly the
// length the regressor expects.
func New(encoder *OneHotEncoder, scaler *StandardScaler, model Regressor) (*Artifacts, error) {
	want := encoder.Size() + scaler.Size()
	if model.NumFeatures() != want {
		return nil, fmt.Errorf("model expects %d features but encoder (%d) and scaler (%d) produce %d",
			model.NumFeatures(), encoder.Size(), scaler.Size(), want)
	}
	return &Artifacts{Encoder: encoder, Scaler: scaler, Model: model}, nil
}

func (a *Artifacts) Encode(company, name, fuelType string) ([]float64, error) {
	return a.Encoder.Encode(company, name, fuelType)
}

func (a *Artifacts) Scale(year, kmsDriven int) []float64 {
	return a.Scaler.Transform(year, kmsDriven)
}

func (a *Artifacts) Predict(features []float64) (float64, error) {
	return a.Model.Predict(features)
}

// InputDim is the feature vector length the model was trained on.
func (a *Artifacts) InputDim() int {
	return a.Model.NumFeatures()
}

// Summary describes the loaded artifacts for health and admin pages.
type Summary struct {
	Vocabulary map[string]int `json:"vocabulary"`
	Encoded    int            `json:"encoded"`
	Scaled     int            `json:"scaled"`
	InputDim   int            `json:"input_dim"`
}

func (a *Artifacts) Summary() Summary {
	vocab := make(map[string]int, len(a.Encoder.Features))
	for i, f := range a.Encoder.Features {
		vocab[f] = len(a.Encoder.Categories[i])
	}
	return Summary{
		Vocabulary: vocab,
		Encoded:    a.Encoder.Size(),
		Scaled:     a.Scaler.Size(),
		InputDim:   a.InputDim(),
	}
}

type encoderBlob struct {
	Features   []string   `json:"features"`
	Categories [][]string `json:"categories"`
}

type scalerBlob struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
}

type modelBlob struct {
	Type      string    `json:"type"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// Load reads and validates all three artifacts from src.
func Load(ctx context.Context, src Source) (*Artifacts, error) {
	var eb encoderBlob
	if err := readJSON(ctx, src, EncoderFile, &eb); err != nil {
		return nil, err
	}
	encoder, err := NewOneHotEncoder(eb.Features, eb.Categories)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EncoderFile, err)
	}

	var sb scalerBlob
	if err := readJSON(ctx, src, ScalerFile, &sb); err != nil {
		return nil, err
	}
	scaler, err := NewStandardScaler(sb.Features, sb.Mean, sb.Scale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ScalerFile, err)
	}

	var mb modelBlob
	if err := readJSON(ctx, src, ModelFile, &mb); err != nil {
		return nil, err
	}
	model, err := newRegressor(mb)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ModelFile, err)
	}

	artifacts, err := New(encoder, scaler, model)
	if err != nil {
		return nil, err
	}

	log.Printf("[artifacts] Loaded from %s: %d encoded + %d scaled features", src, encoder.Size(), scaler.Size())
	return artifacts, nil
}

func newRegressor(mb modelBlob) (Regressor, error) {
	switch mb.Type {
	case "", ModelTypeLinear:
		return NewLinearRegression(mb.Coef, mb.Intercept)
	default:
		return nil, fmt.Errorf("unsupported model type %q", mb.Type)
	}
}

func readJSON(ctx context.Context, src Source, name string, v interface{}) error {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
