// Package server assembles the service state at startup and runs the HTTP app.
package server

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"

	"github.com/parts-pile/valuator/cache"
	"github.com/parts-pile/valuator/config"
	"github.com/parts-pile/valuator/dataset"
	"github.com/parts-pile/valuator/estimator"
	"github.com/parts-pile/valuator/handlers"
	"github.com/parts-pile/valuator/pricing"
	"github.com/parts-pile/valuator/vehicle"
)

const (
	predictionCacheItems = 10000
	predictionCacheTTL   = 30 * time.Minute
	shutdownTimeout      = 10 * time.Second
)

// StartupError reports which startup stage failed. The process must not
// start listening after one.
type StartupError struct {
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup failed at %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// Service is the fully loaded application. Close releases the memo cache.
type Service struct {
	Handler *handlers.Handler
	memo    *cache.Cache[decimal.Decimal]
}

func (s *Service) Close() {
	if s.memo != nil {
		s.memo.Close()
	}
}

// Bootstrap loads the dataset and artifacts named by cfg and builds the
// shared handler state. Every failure is a *StartupError.
func Bootstrap(ctx context.Context, cfg config.Config) (*Service, error) {
	listings, err := dataset.Load(ctx, cfg.Dataset.Path)
	if err != nil {
		return nil, &StartupError{Stage: "dataset", Err: err}
	}
	log.Printf("[startup] Loaded %d listings from %s", len(listings), cfg.Dataset.Path)

	src, err := artifactSource(cfg)
	if err != nil {
		return nil, &StartupError{Stage: "artifacts", Err: err}
	}
	artifacts, err := estimator.Load(ctx, src)
	if err != nil {
		return nil, &StartupError{Stage: "artifacts", Err: err}
	}
	log.Printf("[startup] Loaded artifacts from %s (input dim %d)", src, artifacts.InputDim())

	catalog := vehicle.BuildCatalog(listings)
	if catalog.Empty() {
		return nil, &StartupError{Stage: "catalog", Err: dataset.ErrEmpty}
	}
	for _, gap := range VocabularyGaps(catalog, artifacts.Encoder) {
		log.Printf("[startup] %s is in the dataset but not in the trained vocabulary", gap)
	}

	var memo *cache.Cache[decimal.Decimal]
	if cfg.Predict.Cache {
		memo, err = cache.New[decimal.Decimal]("predictions", predictionCacheItems, predictionCacheTTL)
		if err != nil {
			return nil, &StartupError{Stage: "cache", Err: err}
		}
	}

	h := handlers.New(handlers.State{
		Catalog:   catalog,
		Pricer:    pricing.NewService(artifacts, cfg.Predict.Timeout, memo),
		Artifacts: artifacts.Summary(),
		Listings:  len(listings),
		Source:    src.String(),
	})
	return &Service{Handler: h, memo: memo}, nil
}

func artifactSource(cfg config.Config) (estimator.Source, error) {
	switch cfg.Artifacts.Source {
	case config.ArtifactSourceB2:
		bucket, err := estimator.OpenB2Bucket(estimator.B2Credentials{
			AccountID: cfg.B2.AccountID,
			KeyID:     cfg.B2.KeyID,
			AppKey:    cfg.B2.AppKey,
		}, cfg.B2.Bucket)
		if err != nil {
			return nil, err
		}
		return &estimator.B2Source{Bucket: bucket, BucketName: cfg.B2.Bucket, Prefix: cfg.B2.Prefix}, nil
	default:
		return estimator.DirSource(cfg.Artifacts.Dir), nil
	}
}

// VocabularyGaps lists catalog values the encoder has never seen. Requests
// for them will be rejected as unknown categories.
func VocabularyGaps(catalog vehicle.Catalog, encoder *estimator.OneHotEncoder) []string {
	var gaps []string
	for _, company := range catalog.Companies {
		if !encoder.Knows(estimator.FeatureCompany, company) {
			gaps = append(gaps, fmt.Sprintf("%s %q", estimator.FeatureCompany, company))
		}
		for _, model := range catalog.ModelsFor(company) {
			if !encoder.Knows(estimator.FeatureName, model) {
				gaps = append(gaps, fmt.Sprintf("%s %q", estimator.FeatureName, model))
			}
		}
	}
	for _, fuel := range catalog.FuelTypes {
		if !encoder.Knows(estimator.FeatureFuelType, fuel) {
			gaps = append(gaps, fmt.Sprintf("%s %q", estimator.FeatureFuelType, fuel))
		}
	}
	return gaps
}

// New builds the fiber app with middleware and routes.
func New(cfg config.Config, h *handlers.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.CustomErrorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Get("/options", h.HandleOptions)
	app.Post("/predict", h.HandlePredict)
	app.Get("/health", h.HandleHealth)
	app.Get("/admin", h.HandleAdmin)

	// Admin API
	admin := app.Group("/api/admin")
	admin.Get("/prediction-cache", h.HandleCacheStats)
	admin.Post("/prediction-cache/clear", h.HandleClearCache)

	return app
}

// Run bootstraps the service and serves until ctx is canceled or the process
// receives SIGINT or SIGTERM.
func Run(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	app := New(cfg, svc.Handler)

	errc := make(chan error, 1)
	go func() {
		log.Printf("[startup] Listening on :%s", cfg.Server.Port)
		errc <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Printf("[shutdown] Shutting down server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}
