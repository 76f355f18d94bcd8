package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tanq16/gribdl/internal/utils"
	"gopkg.in/yaml.v3"
)

// Config holds run settings from a YAML file or GRIBDL_* environment
// variables. Command-line flags override both.
type Config struct {
	OutputDir  string         `yaml:"output_dir"`
	WorkingDir string         `yaml:"working_dir"`
	Force      bool           `yaml:"force"`
	LogFile    string         `yaml:"log_file"`
	LogLevel   int            `yaml:"log_level"`
	Timeout    time.Duration  `yaml:"-"`
	UserAgent  string         `yaml:"user_agent"`
	Proxy      string         `yaml:"proxy"`
	Headers    []string       `yaml:"headers"`
	Workers    int            `yaml:"workers"`
	Mirror     string         `yaml:"mirror"`
	Profile    string         `yaml:"profile"`
	Products   []ProductEntry `yaml:"products"`
}

// ProductEntry is one product selection. Zero fields take the product's
// defaults when converted with Spec.
type ProductEntry struct {
	Kind     string             `yaml:"kind"`
	Product  string             `yaml:"product"`
	Interval int                `yaml:"interval"`
	Cycle    *int               `yaml:"cycle"`
	Hours    string             `yaml:"hours"`
	BBox     *utils.BoundingBox `yaml:"bbox"`
}

func Default() Config {
	return Config{
		LogLevel: 2,
		Workers:  utils.MaxWorkers,
	}
}

func DefaultBBox() utils.BoundingBox {
	return utils.BoundingBox{LeftLon: 0, RightLon: 360, TopLat: 90, BottomLat: -90}
}

type yamlConfig struct {
	Config  `yaml:",inline"`
	Timeout string `yaml:"timeout"`
}

// LoadFromFile parses path over the defaults. Call Validate once every
// override has been applied.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	yc := yamlConfig{Config: Default()}
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	cfg := yc.Config
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// LoadFromEnv overlays GRIBDL_* environment variables onto c. Only parse
// errors are reported; range checks wait for Validate so later overrides
// can still correct a value.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("GRIBDL_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("GRIBDL_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("GRIBDL_LOG_LEVEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse GRIBDL_LOG_LEVEL: %w", err)
		}
		c.LogLevel = n
	}
	if v := os.Getenv("GRIBDL_FORCE"); v != "" {
		c.Force = v == "true" || v == "1"
	}
	if v := os.Getenv("GRIBDL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse GRIBDL_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("GRIBDL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse GRIBDL_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("GRIBDL_MIRROR"); v != "" {
		c.Mirror = v
	}
	if v := os.Getenv("GRIBDL_PROFILE"); v != "" {
		c.Profile = v
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := utils.LevelFromNumeric(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Workers < 1 || c.Workers > utils.MaxWorkers {
		return fmt.Errorf("config: workers must be 1-%d, got %d", utils.MaxWorkers, c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: negative timeout %s", c.Timeout)
	}
	return nil
}

// Spec converts the entry into a validated ProductSpec. now supplies the
// default cycle hour (the current UTC hour).
func (e ProductEntry) Spec(now time.Time) (utils.ProductSpec, error) {
	spec := utils.ProductSpec{Kind: utils.ProductKind(e.Kind), Interval: e.Interval}
	cycle := now.UTC().Hour()
	if e.Cycle != nil {
		cycle = *e.Cycle
	}
	switch spec.Kind {
	case utils.KindQPE:
		spec.Product = e.Product
		if spec.Product == "" {
			spec.Product = "GaugeCorr"
		}
		if spec.Interval == 0 {
			spec.Interval = 1
		}
	case utils.KindQPF:
		spec.Cycle = cycle
		if spec.Interval == 0 {
			spec.Interval = 6
		}
	case utils.KindHRRR:
		spec.Cycle = cycle
		hours := e.Hours
		if hours == "" {
			hours = utils.DefaultForecastHours
		}
		parsed, err := utils.ParseForecastHours(hours)
		if err != nil {
			return utils.ProductSpec{}, fmt.Errorf("%w: %v", utils.ErrInvalidSpec, err)
		}
		spec.ForecastHours = parsed
		spec.BBox = DefaultBBox()
		if e.BBox != nil {
			spec.BBox = *e.BBox
		}
	}
	return spec, spec.Validate()
}
