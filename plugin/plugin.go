// Package plugin is the entry point used by stylesheet processing hosts:
// configuration is resolved once per stylesheet (pass) and every declaration
// value is then handed to the pass for conversion.
package plugin

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"pxvw/css"
	"pxvw/viewport"
)

// Name identifies the plugin to the host.
const Name = "px-rem-to-viewport"

// Plugin keeps user supplied options between passes.
type Plugin struct {
	opts      viewport.Options
	log       *zap.Logger
	cacheSize int
	rewriter  *css.Rewriter
}

// Option configures Plugin.
type Option func(*Plugin)

// WithLogger sets logger for the plugin and the stylesheet rewriter it uses.
func WithLogger(log *zap.Logger) Option {
	return func(p *Plugin) {
		if log != nil {
			p.log = log
		}
	}
}

// WithCacheSize enables memoization of converted values within a pass. Real
// stylesheets repeat the same values a lot. Zero or negative size disables
// cache.
func WithCacheSize(size int) Option {
	return func(p *Plugin) {
		p.cacheSize = size
	}
}

// New creates plugin for the given options. Options are not validated until
// the first pass begins.
func New(opts viewport.Options, options ...Option) *Plugin {
	p := &Plugin{opts: opts, log: zap.NewNop()}
	for _, setOpt := range options {
		setOpt(p)
	}
	p.log = p.log.Named("plugin")
	p.rewriter = css.NewRewriter(p.log)
	return p
}

// Begin starts a new pass: it resolves configuration against src. It fails
// with viewport.ErrInvalidConfiguration when resolved configuration is not
// usable, in which case nothing should be converted.
func (p *Plugin) Begin(src viewport.Source) (*Pass, error) {
	cfg, err := viewport.Resolve(p.opts, src)
	if err != nil {
		return nil, err
	}

	pass := &Pass{cfg: cfg, src: src}
	if p.cacheSize > 0 {
		if pass.cache, err = lru.New[string, string](p.cacheSize); err != nil {
			return nil, fmt.Errorf("unable to create value cache: %w", err)
		}
	}

	p.log.Debug("Pass started",
		zap.String("source", src.File),
		zap.Float64("design_width", cfg.DesignWidth),
		zap.Float64("base_font_size", cfg.BaseFontSize),
		zap.Int("precision", cfg.UnitPrecision),
		zap.Stringer("unit", cfg.OutputUnit),
		zap.Float64("min_pixel_value", cfg.MinPixelValue))
	return pass, nil
}

// Process runs a complete pass over stylesheet data: Begin followed by
// conversion of every declaration.
func (p *Plugin) Process(data []byte, src viewport.Source) (*css.Result, error) {
	pass, err := p.Begin(src)
	if err != nil {
		return nil, err
	}
	res, err := p.rewriter.Rewrite(data, pass.Rewrite, src.File)
	if err != nil {
		return nil, err
	}
	p.log.Debug("Pass completed",
		zap.String("source", src.File),
		zap.Int("declarations", res.Declarations),
		zap.Int("converted", res.Changed))
	return res, nil
}
