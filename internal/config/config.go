package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/batch-image-processor/internal/format"
	"github.com/aliskhannn/batch-image-processor/internal/model"
)

// Config holds the main configuration for the application.
type Config struct {
	InputDir   string    `mapstructure:"input_dir"`   // directory containing input images
	OutputDir  string    `mapstructure:"output_dir"`  // directory for processed images
	ReportsDir string    `mapstructure:"reports_dir"` // directory for batch reports
	Workers    int       `mapstructure:"workers"`     // worker pool size; 1 means sequential
	Format     string    `mapstructure:"format"`      // explicit output format; empty means extension-derived
	Transform  Transform `mapstructure:"transform"`
	Storage    Storage   `mapstructure:"storage"`
	Retry      Retry     `mapstructure:"retry"`
}

// Transform holds the transform parameters applied to every image.
type Transform struct {
	Width      int     `mapstructure:"width"`
	Height     int     `mapstructure:"height"`
	Blur       float64 `mapstructure:"blur"`
	Sharpen    float64 `mapstructure:"sharpen"`
	Contrast   float64 `mapstructure:"contrast"`
	Brightness float64 `mapstructure:"brightness"`
}

// Storage holds configuration for the output storage backend.
type Storage struct {
	Backend    string `mapstructure:"backend"` // "file" or "minio"
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// Retry defines the retry policy for output saves.
type Retry struct {
	Attempts int           `mapstructure:"attempts"` // number of retry attempts
	Delay    time.Duration `mapstructure:"delay"`    // initial delay between retries
	Backoff  float64       `mapstructure:"backoff"`  // backoff multiplier for delays
}

// Params converts the transform section into the validated parameter
// set shared by every job in a batch.
func (t Transform) Params() model.Params {
	return model.Params{
		Width:      t.Width,
		Height:     t.Height,
		Blur:       t.Blur,
		Sharpen:    t.Sharpen,
		Contrast:   t.Contrast,
		Brightness: t.Brightness,
	}
}

// OutputFormat parses the configured format override. An empty value
// means extension-derived output formats.
func (c *Config) OutputFormat() (format.Format, error) {
	switch strings.ToLower(c.Format) {
	case "":
		return "", nil
	case "jpg", "jpeg":
		return format.JPEG, nil
	case "png":
		return format.PNG, nil
	case "bmp":
		return format.BMP, nil
	case "tiff":
		return format.TIFF, nil
	case "webp":
		return format.WEBP, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", c.Format)
	}
}

// ParseResize parses a WIDTHxHEIGHT string (e.g. "800x600").
func ParseResize(s string) (int, int, error) {
	if s == "" {
		return 0, 0, nil
	}

	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("resize must be WIDTHxHEIGHT, got %q", s)
	}

	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resize width: %w", err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resize height: %w", err)
	}

	return w, h, nil
}

// setDefaults seeds every key so a missing config file still yields a
// usable configuration. The worker default is 1: sequential execution
// is the default and parallelism is opt-in.
func setDefaults() {
	viper.SetDefault("input_dir", "./data/input")
	viper.SetDefault("output_dir", "./data/output")
	viper.SetDefault("reports_dir", "./reports")
	viper.SetDefault("workers", 1)
	viper.SetDefault("transform.width", 800)
	viper.SetDefault("transform.height", 600)
	viper.SetDefault("transform.blur", 1.0)
	viper.SetDefault("transform.sharpen", 1.5)
	viper.SetDefault("transform.contrast", 1.2)
	viper.SetDefault("transform.brightness", 1.1)
	viper.SetDefault("storage.backend", "file")
	viper.SetDefault("retry.attempts", 3)
	viper.SetDefault("retry.delay", 100*time.Millisecond)
	viper.SetDefault("retry.backoff", 2.0)
}

// mustBindEnv binds storage credentials to environment variables.
//
// It panics if any environment variable cannot be bound.
func mustBindEnv() {
	bindings := map[string]string{
		"storage.endpoint":   "MINIO_ENDPOINT",
		"storage.access_key": "MINIO_ACCESS_KEY",
		"storage.secret_key": "MINIO_SECRET_KEY",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			zlog.Logger.Panic().Err(err).Msgf("failed to bind env %s", env)
		}
	}
}

// MustLoad loads the configuration from the config directory, the
// environment, and the given command-line flags, in ascending order of
// precedence. A missing config file is fine; any other load error
// panics.
func MustLoad(flags *pflag.FlagSet) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()
	mustBindEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			zlog.Logger.Panic().Err(err).Msg("failed to read config")
		}
	}

	if flags != nil {
		bindFlags(flags)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		zlog.Logger.Panic().Err(err).Msgf("failed to unmarshal config: %v", err)
	}

	return &cfg
}

// bindFlags maps command-line flags onto config keys. Only flags the
// user actually set override the file and environment.
func bindFlags(flags *pflag.FlagSet) {
	bindings := map[string]string{
		"input_dir":            "input-dir",
		"output_dir":           "output-dir",
		"reports_dir":          "reports-dir",
		"workers":              "workers",
		"format":               "format",
		"transform.blur":       "blur",
		"transform.sharpen":    "sharpen",
		"transform.contrast":   "contrast",
		"transform.brightness": "brightness",
	}

	for key, name := range bindings {
		if f := flags.Lookup(name); f != nil && f.Changed {
			viper.Set(key, f.Value.String())
		}
	}

	if f := flags.Lookup("resize"); f != nil && f.Changed {
		w, h, err := ParseResize(f.Value.String())
		if err != nil {
			zlog.Logger.Panic().Err(err).Msg("invalid resize flag")
		}
		viper.Set("transform.width", w)
		viper.Set("transform.height", h)
	}
}
