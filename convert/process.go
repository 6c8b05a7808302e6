package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/renameio/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pxvw/css"
	"pxvw/plugin"
	"pxvw/state"
	"pxvw/viewport"
)

type outcome int

const (
	outcomeUnchanged outcome = iota // nothing to convert, file left alone
	outcomeWritten                  // converted stylesheet stored
	outcomeSkipped                  // destination exists and overwrite was not requested
	outcomeDryRun                   // conversion performed, result discarded
)

// summary counts outcomes of a batch.
type summary struct {
	files     atomic.Int64
	written   atomic.Int64
	unchanged atomic.Int64
	skipped   atomic.Int64
	failed    atomic.Int64
}

func (s *summary) add(o outcome, err error) {
	s.files.Add(1)
	if err != nil {
		s.failed.Add(1)
		return
	}
	switch o {
	case outcomeWritten, outcomeDryRun:
		s.written.Add(1)
	case outcomeUnchanged:
		s.unchanged.Add(1)
	case outcomeSkipped:
		s.skipped.Add(1)
	}
}

func (s *summary) fields() []zap.Field {
	return []zap.Field{
		zap.Int64("files", s.files.Load()),
		zap.Int64("converted", s.written.Load()),
		zap.Int64("unchanged", s.unchanged.Load()),
		zap.Int64("skipped", s.skipped.Load()),
		zap.Int64("failed", s.failed.Load()),
	}
}

// processAll converts stylesheets using up to "workers" goroutines. Failure
// of a single stylesheet does not stop the batch, all errors are returned
// together.
func processAll(ctx context.Context, jobs []job, dst string, p *plugin.Plugin, workers int, log *zap.Logger) (*summary, error) {
	env := state.EnvFromContext(ctx)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs error
		sum  summary
	)
	g.SetLimit(max(workers, 1))

	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			o, err := processFile(ctx, j, dst, p, env, log)
			sum.add(o, err)
			if err != nil {
				log.Error("Unable to process file", zap.String("file", j.path), zap.Error(err))
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return &sum, multierr.Append(errs, ctx.Err())
}

// processFile converts single stylesheet.
func processFile(ctx context.Context, j job, dst string, p *plugin.Plugin, env *state.LocalEnv, log *zap.Logger) (o outcome, rerr error) {
	if err := ctx.Err(); err != nil {
		return outcomeUnchanged, err
	}

	outputName := buildOutputPath(j, dst, env)
	inPlace := outputName == j.path

	log.Debug("Conversion starting", zap.String("from", j.path))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Debug("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.Int("outcome", int(o)))
		}
	}(time.Now())

	if !inPlace {
		if _, err := os.Stat(outputName); err == nil {
			if !env.Overwrite {
				log.Warn("Output file already exists, skipping", zap.String("file", outputName))
				return outcomeSkipped, nil
			}
			log.Debug("Overwriting existing file", zap.String("file", outputName))
		} else if !os.IsNotExist(err) {
			return outcomeUnchanged, err
		}
	}

	fi, err := os.Stat(j.path)
	if err != nil {
		return outcomeUnchanged, err
	}
	data, err := os.ReadFile(j.path)
	if err != nil {
		return outcomeUnchanged, fmt.Errorf("unable to read stylesheet: %w", err)
	}

	res, err := p.Process(data, viewport.Source{File: j.path, ID: filepath.ToSlash(j.rel)})
	if err != nil {
		return outcomeUnchanged, fmt.Errorf("unable to convert stylesheet (%s): %w", j.rel, err)
	}
	for _, w := range res.Warnings {
		log.Warn("Stylesheet problem", zap.String("file", j.path), zap.String("warning", w))
	}

	if inPlace && !res.Modified() {
		return outcomeUnchanged, nil
	}
	if env.DryRun {
		log.Info("Would convert", zap.String("from", j.path), zap.String("to", outputName), zap.Int("declarations", res.Changed))
		return outcomeDryRun, nil
	}
	if err := writeResult(outputName, res, fi.Mode().Perm()); err != nil {
		return outcomeUnchanged, err
	}
	log.Info("Converted", zap.String("from", j.path), zap.String("to", outputName), zap.Int("declarations", res.Changed))
	return outcomeWritten, nil
}

// writeResult atomically replaces (or creates) file with converted
// stylesheet.
func writeResult(name string, res *css.Result, perm os.FileMode) (err error) {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	pf, err := renameio.NewPendingFile(name, renameio.WithPermissions(perm))
	if err != nil {
		return fmt.Errorf("unable to create pending file: %w", err)
	}
	defer func() {
		// no-op after successful replace
		if er := pf.Cleanup(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to cleanup pending file: %w", er))
		}
	}()

	if _, err := res.WriteTo(pf); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("unable to replace %s: %w", name, err)
	}
	return nil
}
