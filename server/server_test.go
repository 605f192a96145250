package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parts-pile/valuator/config"
	"github.com/parts-pile/valuator/dataset"
	"github.com/parts-pile/valuator/estimator"
	"github.com/parts-pile/valuator/vehicle"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Dataset.Path = "../data/Cleaned_Car_data.csv"
	cfg.Artifacts.Dir = "../estimator/testdata"
	return cfg
}

func TestBootstrap(t *testing.T) {
	svc, err := Bootstrap(context.Background(), testConfig())
	require.NoError(t, err)
	defer svc.Close()
	assert.NotNil(t, svc.Handler)
}

func TestBootstrap_Failures(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("name,company,year,Price,kms_driven,fuel_type\n"), 0o644))

	badModel := t.TempDir()
	for _, name := range []string{estimator.EncoderFile, estimator.ScalerFile} {
		data, err := os.ReadFile(filepath.Join("../estimator/testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(badModel, name), data, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(badModel, estimator.ModelFile), []byte(`{"coef":[1,2],"intercept":0}`), 0o644))

	tests := []struct {
		name      string
		mutate    func(*config.Config)
		wantStage string
	}{
		{
			name:      "missing dataset",
			mutate:    func(c *config.Config) { c.Dataset.Path = "../data/missing.csv" },
			wantStage: "dataset",
		},
		{
			name:      "empty dataset",
			mutate:    func(c *config.Config) { c.Dataset.Path = empty },
			wantStage: "dataset",
		},
		{
			name:      "missing artifacts",
			mutate:    func(c *config.Config) { c.Artifacts.Dir = t.TempDir() },
			wantStage: "artifacts",
		},
		{
			name:      "dimension mismatch",
			mutate:    func(c *config.Config) { c.Artifacts.Dir = badModel },
			wantStage: "artifacts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			svc, err := Bootstrap(context.Background(), cfg)
			require.Error(t, err)
			assert.Nil(t, svc)

			var startupErr *StartupError
			require.True(t, errors.As(err, &startupErr))
			assert.Equal(t, tt.wantStage, startupErr.Stage)
		})
	}
}

func TestVocabularyGaps(t *testing.T) {
	artifacts, err := estimator.Load(context.Background(), estimator.DirSource("../estimator/testdata"))
	require.NoError(t, err)

	catalog := vehicle.BuildCatalog([]dataset.Listing{
		{Name: "Swift", Company: "Maruti", Year: 2015, FuelType: "Petrol"},
		{Name: "Nexon", Company: "Tata", Year: 2020, FuelType: "CNG"},
	})

	gaps := VocabularyGaps(catalog, artifacts.Encoder)
	assert.Equal(t, []string{`company "Tata"`, `name "Nexon"`, `fuel_type "CNG"`}, gaps)
}

func newTestServer(t *testing.T) (*Service, func(method, path, body string) (int, string)) {
	t.Helper()
	cfg := testConfig()
	svc, err := Bootstrap(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	app := New(cfg, svc.Handler)
	do := func(method, path, body string) (int, string) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", "http://localhost:3000")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(data)
	}
	return svc, do
}

func TestServer_Options(t *testing.T) {
	_, do := newTestServer(t)

	status, body := do("GET", "/options", "")
	require.Equal(t, 200, status)

	var got struct {
		Companies       []string            `json:"companies"`
		ModelsByCompany map[string][]string `json:"modelsByCompany"`
		Years           []int               `json:"years"`
		FuelTypes       []string            `json:"fuelTypes"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, []string{"Honda", "Maruti"}, got.Companies)
	assert.Equal(t, []string{"Baleno", "Swift"}, got.ModelsByCompany["Maruti"])
	assert.Equal(t, []string{"City"}, got.ModelsByCompany["Honda"])
	assert.Equal(t, []int{2012, 2014, 2015, 2017, 2018}, got.Years)
	assert.Equal(t, []string{"Diesel", "Petrol"}, got.FuelTypes)
}

func TestServer_Predict(t *testing.T) {
	_, do := newTestServer(t)
	valid := `{"company":"Maruti","name":"Swift","year":2015,"fuel_type":"Petrol","kms_driven":40000}`

	status, first := do("POST", "/predict", valid)
	assert.Equal(t, 200, status)
	assert.Equal(t, `{"estimated_price":452000.00}`, first)

	_, second := do("POST", "/predict", valid)
	assert.Equal(t, first, second)

	_, optionsBefore := do("GET", "/options", "")
	_, healthBefore := do("GET", "/health", "")

	status, body := do("POST", "/predict", `{"company":"Maruti","name":"Swift","year":2015,"fuel_type":"Petrol"}`)
	assert.Equal(t, 400, status)
	assert.Contains(t, body, "kms_driven")

	// a rejected request leaves catalog and artifacts untouched
	_, optionsAfter := do("GET", "/options", "")
	_, healthAfter := do("GET", "/health", "")
	assert.Equal(t, optionsBefore, optionsAfter)
	assert.Equal(t, healthBefore, healthAfter)
	status, body = do("POST", "/predict", valid)
	assert.Equal(t, 200, status)
	assert.Equal(t, `{"estimated_price":452000.00}`, body)

	status, body = do("POST", "/predict", `{"company":"Nonexistent","name":"Swift","year":2015,"fuel_type":"Petrol","kms_driven":40000}`)
	assert.Equal(t, 422, status)
	assert.Contains(t, body, "Nonexistent")

	status, _ = do("POST", "/predict", `not json`)
	assert.Equal(t, 400, status)
}

func TestServer_Health(t *testing.T) {
	_, do := newTestServer(t)

	status, body := do("GET", "/health", "")
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"status":"ok","artifacts":"loaded","listings":5,"input_dim":9}`, body)
}

func TestServer_UnknownRoute(t *testing.T) {
	_, do := newTestServer(t)

	status, body := do("GET", "/nope", "")
	assert.Equal(t, 404, status)
	assert.Contains(t, body, `"error"`)
}

func TestRun_StartupFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Dataset.Path = "../data/missing.csv"

	err := Run(context.Background(), cfg)
	var startupErr *StartupError
	require.True(t, errors.As(err, &startupErr))
	assert.Equal(t, "dataset", startupErr.Stage)
}
