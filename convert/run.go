// Package convert implements "convert" command: px and rem lengths in
// stylesheets are converted to viewport units.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"pxvw/common"
	"pxvw/config"
	"pxvw/plugin"
	"pxvw/state"
	"pxvw/viewport"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	// without destination stylesheets are converted in place
	dst := cmd.Args().Get(1)
	if len(dst) > 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	env.DryRun, env.Watch = cmd.Bool("dry-run"), cmd.Bool("watch")

	if err := applyOverrides(cmd, &env.Cfg.Conversion); err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Bool("dry-run", env.DryRun))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process handles the core conversion logic independently of CLI framework.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	sel, err := newSelector(src, dst, &env.Cfg.Processing)
	if err != nil {
		return err
	}
	if dst == sel.root {
		dst, sel.ignore = "", ""
	}
	if len(dst) == 0 && env.NoDirs {
		log.Warn("No destination specified, ignoring nodirs")
	}
	if len(dst) > 0 {
		if fi, err := os.Stat(dst); err == nil && !fi.IsDir() {
			return fmt.Errorf("destination is not a directory (%s)", dst)
		}
	}

	p := plugin.New(env.Cfg.Conversion.Options(),
		plugin.WithLogger(log),
		plugin.WithCacheSize(env.Cfg.Processing.CacheSize))

	// check conversion settings before touching any files
	if _, err := p.Begin(viewport.Source{}); err != nil {
		return fmt.Errorf("unable to prepare conversion: %w", err)
	}

	jobs, err := sel.discover(ctx, log)
	if err != nil {
		return fmt.Errorf("unable to process source: %w", err)
	}
	if len(jobs) == 0 {
		log.Info("Nothing to process", zap.String("source", src))
	}

	workers := env.Cfg.Processing.WorkersCount()
	sum, err := processAll(ctx, jobs, dst, p, workers, log)
	log.Info("Stylesheets processed", sum.fields()...)
	if err != nil {
		err = fmt.Errorf("unable to convert some stylesheets: %w", err)
	}
	if !env.Watch || ctx.Err() != nil {
		return err
	}
	if err != nil {
		// keep watching, failed stylesheets may be fixed later
		log.Warn("Initial conversion was incomplete", zap.Error(err))
	}
	w := &watcher{
		sel:      sel,
		dst:      dst,
		plugin:   p,
		workers:  workers,
		debounce: env.Cfg.Processing.WatchDebounce,
		log:      log,
	}
	return w.run(ctx)
}

// applyOverrides replaces configured conversion settings with values
// explicitly given on command line.
func applyOverrides(cmd *cli.Command, conv *config.ConversionConfig) error {
	if cmd.IsSet("design-width") {
		conv.DesignWidth = cmd.Float("design-width")
	}
	if cmd.IsSet("base-font-size") {
		conv.BaseFontSize = cmd.Float("base-font-size")
	}
	if cmd.IsSet("precision") {
		conv.UnitPrecision = int(cmd.Int("precision"))
	}
	if cmd.IsSet("min-pixel-value") {
		conv.MinPixelValue = cmd.Float("min-pixel-value")
	}
	if cmd.IsSet("unit") {
		unit, err := common.ParseOutputUnit(cmd.String("unit"))
		if err != nil {
			return fmt.Errorf("unable to use requested unit: %w", err)
		}
		conv.Unit = unit
	}
	return nil
}

// Flags returns command line flags of the "convert" command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "when producing output do not keep input directory structure"},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
		&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "report what would be converted, do not write anything"},
		&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "after conversion keep watching SOURCE and convert changed stylesheets"},
		&cli.FloatFlag{Name: "design-width", Usage: "design `WIDTH` in pixels, overrides configuration"},
		&cli.FloatFlag{Name: "base-font-size", Usage: "root font `SIZE` in pixels used for rem, overrides configuration"},
		&cli.IntFlag{Name: "precision", Usage: "number of decimal `DIGITS` in converted values, overrides configuration"},
		&cli.StringFlag{Name: "unit", Usage: "output `UNIT` (supported units: " + strings.Join(common.OutputUnitNames(), ", ") + "), overrides configuration"},
		&cli.FloatFlag{Name: "min-pixel-value", Usage: "do not convert lengths smaller than `PIXELS`, overrides configuration"},
	}
}
