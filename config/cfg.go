package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"runtime"
	"time"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"pxvw/common"
	"pxvw/viewport"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	WidthRule struct {
		Pattern string  `yaml:"pattern" validate:"required"`
		Width   float64 `yaml:"width" validate:"gt=0"`
	}

	ConversionConfig struct {
		DesignWidth      float64           `yaml:"design_width" validate:"gt=0"`
		BaseFontSize     float64           `yaml:"base_font_size" validate:"gt=0"`
		UnitPrecision    int               `yaml:"unit_precision" validate:"min=0,max=15"`
		Unit             common.OutputUnit `yaml:"unit"`
		MinPixelValue    float64           `yaml:"min_pixel_value" validate:"gte=0"`
		DesignWidthRules []WidthRule       `yaml:"design_width_rules" validate:"dive"`
	}

	ProcessingConfig struct {
		Include       []string      `yaml:"include" validate:"min=1,dive,required"`
		Exclude       []string      `yaml:"exclude" validate:"dive,required"`
		Workers       int           `yaml:"workers" validate:"gte=0"`
		CacheSize     int           `yaml:"cache_size" validate:"gte=0"`
		WatchDebounce time.Duration `yaml:"watch_debounce" validate:"gte=0"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Conversion ConversionConfig `yaml:"conversion"`
		Processing ProcessingConfig `yaml:"processing"`
		Logging    LoggingConfig    `yaml:"logging"`
	}
)

// checkPatterns is struct level validation for things tags cannot express.
func checkPatterns(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	if !cfg.Conversion.Unit.IsValid() {
		sl.ReportError(cfg.Conversion.Unit, "unit", "Unit", "oneof", "vw vmin")
	}
	if err := viewport.ValidateRules(cfg.Conversion.Rules()); err != nil {
		sl.ReportError(cfg.Conversion.DesignWidthRules, "design_width_rules", "DesignWidthRules", "pattern", err.Error())
	}
	for _, p := range cfg.Processing.Include {
		if err := viewport.ValidateRules([]viewport.PathWidth{{Pattern: p}}); err != nil {
			sl.ReportError(cfg.Processing.Include, "include", "Include", "pattern", p)
		}
	}
	for _, p := range cfg.Processing.Exclude {
		if err := viewport.ValidateRules([]viewport.PathWidth{{Pattern: p}}); err != nil {
			sl.ReportError(cfg.Processing.Exclude, "exclude", "Exclude", "pattern", p)
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkPatterns)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// Rules converts configured design width rules for the conversion engine.
func (c *ConversionConfig) Rules() []viewport.PathWidth {
	if len(c.DesignWidthRules) == 0 {
		return nil
	}
	rules := make([]viewport.PathWidth, 0, len(c.DesignWidthRules))
	for _, r := range c.DesignWidthRules {
		rules = append(rules, viewport.PathWidth{Pattern: r.Pattern, Width: r.Width})
	}
	return rules
}

// Options builds conversion options: fixed design width or path based one
// when rules are configured.
func (c *ConversionConfig) Options() viewport.Options {
	return viewport.Options{
		DesignWidth:   viewport.WidthByPath(c.Rules(), c.DesignWidth),
		BaseFontSize:  viewport.Ptr(c.BaseFontSize),
		UnitPrecision: viewport.Ptr(c.UnitPrecision),
		OutputUnit:    viewport.Ptr(c.Unit),
		MinPixelValue: viewport.Ptr(c.MinPixelValue),
	}
}

// WorkersCount returns number of parallel workers to use.
func (c *ProcessingConfig) WorkersCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
