package convert

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"pxvw/config"
)

// job is a single stylesheet to process.
type job struct {
	path string // absolute name of the source file
	rel  string // name relative to the source root
}

// selector decides which files under source root are stylesheets to
// process. When single file was requested only that file is selected and
// include/exclude patterns are not consulted.
type selector struct {
	root    string
	single  string
	include []string
	exclude []string
	ignore  string // destination directory, never selected
}

func newSelector(src, dst string, proc *config.ProcessingConfig) (*selector, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	s := &selector{include: proc.Include, exclude: proc.Exclude, ignore: dst}
	switch {
	case fi.Mode().IsRegular():
		s.root, s.single = filepath.Dir(src), src
	case fi.IsDir():
		s.root = src
	default:
		return nil, fmt.Errorf("unexpected path mode for (%s)", src)
	}
	return s, nil
}

// relative returns slash separated name relative to the root. It fails for
// names outside of the root and for names under destination directory.
func (s *selector) relative(path string) (string, bool) {
	if s.ignore != "" && (path == s.ignore || strings.HasPrefix(path, s.ignore+string(filepath.Separator))) {
		return "", false
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// skipDir reports whether directory should not be descended into.
func (s *selector) skipDir(path string) bool {
	if path == s.root {
		return false
	}
	if s.single != "" {
		return true
	}
	rel, ok := s.relative(path)
	return !ok || matchAny(s.exclude, rel)
}

// selectFile returns job for the file when it has to be processed.
func (s *selector) selectFile(path string) (job, bool) {
	if s.single != "" {
		return job{path: path, rel: filepath.Base(path)}, path == s.single
	}
	rel, ok := s.relative(path)
	if !ok || matchAny(s.exclude, rel) || !matchAny(s.include, rel) {
		return job{}, false
	}
	return job{path: path, rel: filepath.FromSlash(rel)}, true
}

// discover walks source tree and returns selected stylesheets in natural
// order. Symbolic links are not followed.
func (s *selector) discover(ctx context.Context, log *zap.Logger) ([]job, error) {
	if s.single != "" {
		return []job{{path: s.single, rel: filepath.Base(s.single)}}, nil
	}

	var jobs []job
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if s.skipDir(path) {
				log.Debug("Skipping directory", zap.String("dir", path))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if j, ok := s.selectFile(path); ok {
			jobs = append(jobs, j)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortJobs(jobs)
	return jobs, nil
}

func sortJobs(jobs []job) {
	sort.Slice(jobs, func(i, j int) bool {
		return natural.Less(jobs[i].rel, jobs[j].rel)
	})
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
