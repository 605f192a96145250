package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ArtifactSourceLocal reads artifact blobs from ArtifactDir.
	ArtifactSourceLocal = "local"
	// ArtifactSourceB2 downloads artifact blobs from a Backblaze B2 bucket.
	ArtifactSourceB2 = "b2"
)

// Config holds everything the service needs at startup. It is built once and
// never mutated afterwards.
type Config struct {
	Server struct {
		Port             string        `yaml:"port"`
		BodyLimit        int           `yaml:"body_limit"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		CORSAllowOrigins string        `yaml:"cors_allow_origins"`
	} `yaml:"server"`

	Dataset struct {
		Path string `yaml:"path"` // .csv file or SQLite database
	} `yaml:"dataset"`

	Artifacts struct {
		Source string `yaml:"source"` // "local" or "b2"
		Dir    string `yaml:"dir"`
	} `yaml:"artifacts"`

	B2 struct {
		AccountID string `yaml:"account_id"`
		KeyID     string `yaml:"key_id"`
		AppKey    string `yaml:"app_key"`
		Bucket    string `yaml:"bucket"`
		Prefix    string `yaml:"prefix"`
	} `yaml:"b2"`

	Predict struct {
		Timeout time.Duration `yaml:"timeout"`
		Cache   bool          `yaml:"cache"`
	} `yaml:"predict"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8000"
	cfg.Server.BodyLimit = 64 * 1024
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 10 * time.Second
	cfg.Server.CORSAllowOrigins = "*"
	cfg.Dataset.Path = "data/Cleaned_Car_data.csv"
	cfg.Artifacts.Source = ArtifactSourceLocal
	cfg.Artifacts.Dir = "artifacts"
	cfg.Predict.Timeout = 250 * time.Millisecond
	cfg.Predict.Cache = true
	return cfg
}

// Load builds a Config from defaults, then the YAML file at path (if path is
// not empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	// Secrets may be written as ${VAR} in the file
	cfg.B2.AccountID = os.ExpandEnv(cfg.B2.AccountID)
	cfg.B2.KeyID = os.ExpandEnv(cfg.B2.KeyID)
	cfg.B2.AppKey = os.ExpandEnv(cfg.B2.AppKey)

	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.CORSAllowOrigins, "CORS_ALLOW_ORIGINS")
	setString(&cfg.Dataset.Path, "DATASET_PATH")
	setString(&cfg.Artifacts.Source, "ARTIFACT_SOURCE")
	setString(&cfg.Artifacts.Dir, "ARTIFACT_DIR")
	setString(&cfg.B2.AccountID, "B2_ACCOUNT_ID")
	setString(&cfg.B2.KeyID, "B2_KEY_ID")
	setString(&cfg.B2.AppKey, "B2_APP_KEY")
	setString(&cfg.B2.Bucket, "B2_BUCKET")
	setString(&cfg.B2.Prefix, "B2_PREFIX")

	if v, ok := os.LookupEnv("PREDICT_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PREDICT_TIMEOUT %q: %w", v, err)
		}
		cfg.Predict.Timeout = d
	}
	if v, ok := os.LookupEnv("PREDICTION_CACHE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PREDICTION_CACHE %q: %w", v, err)
		}
		cfg.Predict.Cache = b
	}
	if v, ok := os.LookupEnv("SERVER_BODY_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_BODY_LIMIT %q: %w", v, err)
		}
		cfg.Server.BodyLimit = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Dataset.Path == "" {
		errs = append(errs, errors.New("dataset path is required"))
	}
	if c.Predict.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("predict timeout must be positive, got %s", c.Predict.Timeout))
	}
	switch c.Artifacts.Source {
	case ArtifactSourceLocal:
		if c.Artifacts.Dir == "" {
			errs = append(errs, errors.New("artifact dir is required for local source"))
		}
	case ArtifactSourceB2:
		if c.B2.Bucket == "" || c.B2.AppKey == "" || (c.B2.AccountID == "" && c.B2.KeyID == "") {
			errs = append(errs, errors.New("B2 credentials and bucket are required for b2 source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown artifact source %q", c.Artifacts.Source))
	}
	return errors.Join(errs...)
}
