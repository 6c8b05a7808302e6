// Package viewport converts absolute CSS lengths (px and rem) found in
// declaration values into viewport relative units (vw or vmin).
package viewport

import (
	"errors"
	"fmt"
	"math"

	"pxvw/common"
)

// ErrInvalidConfiguration is returned by Resolve when options cannot produce
// a usable Config. No conversion should happen for the pass in that case.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Defaults used for options which are not set.
const (
	DefaultDesignWidth   = 375.0
	DefaultBaseFontSize  = 16.0
	DefaultUnitPrecision = 5
	DefaultOutputUnit    = common.OutputUnitVw
	DefaultMinPixelValue = 1.0

	// float64 does not carry more significant decimal digits than this
	maxUnitPrecision = 15
)

// Source identifies what is being processed in a single pass, usually the
// stylesheet file. It is handed to a design width function once per pass.
type Source struct {
	File string // path of the originating stylesheet, may be empty
	ID   string // any other caller defined identifier
}

// DesignWidth is either a fixed width or a function of the pass Source. Zero
// value means "not set".
type DesignWidth struct {
	fixed float64
	fn    func(Source) float64
	set   bool
}

// FixedWidth returns design width which does not depend on the source.
func FixedWidth(w float64) DesignWidth {
	return DesignWidth{fixed: w, set: true}
}

// WidthFunc returns design width computed from the source of every pass.
func WidthFunc(fn func(Source) float64) DesignWidth {
	return DesignWidth{fn: fn, set: fn != nil}
}

// IsSet reports whether design width was specified.
func (d DesignWidth) IsSet() bool {
	return d.set
}

// IsDynamic reports whether design width depends on the source.
func (d DesignWidth) IsDynamic() bool {
	return d.fn != nil
}

func (d DesignWidth) resolve(src Source) float64 {
	switch {
	case d.fn != nil:
		return d.fn(src)
	case d.set:
		return d.fixed
	default:
		return DefaultDesignWidth
	}
}

// Options is a partial conversion configuration. Nil pointers (and unset
// DesignWidth) are replaced with defaults by Resolve.
type Options struct {
	DesignWidth   DesignWidth
	BaseFontSize  *float64
	UnitPrecision *int
	OutputUnit    *common.OutputUnit
	MinPixelValue *float64
}

// Ptr is a helper to fill optional fields of Options.
func Ptr[T any](v T) *T {
	return &v
}

// Config is fully resolved conversion configuration. It is created once per
// pass by Resolve and must not be changed afterwards, so it could be shared by
// any number of goroutines.
type Config struct {
	DesignWidth   float64
	ViewportRatio float64 // 100 / DesignWidth
	BaseFontSize  float64
	UnitPrecision int
	OutputUnit    common.OutputUnit
	MinPixelValue float64
}

// Resolve applies defaults to opts, evaluates design width for src (function
// is called exactly once) and validates the result.
func Resolve(opts Options, src Source) (*Config, error) {
	cfg := &Config{
		DesignWidth:   opts.DesignWidth.resolve(src),
		BaseFontSize:  DefaultBaseFontSize,
		UnitPrecision: DefaultUnitPrecision,
		OutputUnit:    DefaultOutputUnit,
		MinPixelValue: DefaultMinPixelValue,
	}
	if opts.BaseFontSize != nil {
		cfg.BaseFontSize = *opts.BaseFontSize
	}
	if opts.UnitPrecision != nil {
		cfg.UnitPrecision = *opts.UnitPrecision
	}
	if opts.OutputUnit != nil {
		cfg.OutputUnit = *opts.OutputUnit
	}
	if opts.MinPixelValue != nil {
		cfg.MinPixelValue = *opts.MinPixelValue
	}

	if !positive(cfg.DesignWidth) {
		return nil, fmt.Errorf("%w: design width must be a positive number, got %v (source %q)", ErrInvalidConfiguration, cfg.DesignWidth, src.File)
	}
	if !positive(cfg.BaseFontSize) {
		return nil, fmt.Errorf("%w: base font size must be a positive number, got %v", ErrInvalidConfiguration, cfg.BaseFontSize)
	}
	if cfg.UnitPrecision < 0 || cfg.UnitPrecision > maxUnitPrecision {
		return nil, fmt.Errorf("%w: unit precision must be in range [0, %d], got %d", ErrInvalidConfiguration, maxUnitPrecision, cfg.UnitPrecision)
	}
	if !cfg.OutputUnit.IsValid() {
		return nil, fmt.Errorf("%w: unsupported output unit %s", ErrInvalidConfiguration, cfg.OutputUnit)
	}
	if math.IsNaN(cfg.MinPixelValue) || cfg.MinPixelValue < 0 {
		return nil, fmt.Errorf("%w: minimal pixel value must not be negative, got %v", ErrInvalidConfiguration, cfg.MinPixelValue)
	}

	cfg.ViewportRatio = 100 / cfg.DesignWidth
	return cfg, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
