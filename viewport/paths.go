package viewport

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathWidth assigns design width to stylesheets whose path matches Pattern
// (doublestar syntax, forward slashes).
type PathWidth struct {
	Pattern string
	Width   float64
}

// ValidateRules checks that every pattern could be used for matching.
func ValidateRules(rules []PathWidth) error {
	for i, r := range rules {
		if !doublestar.ValidatePattern(r.Pattern) {
			return fmt.Errorf("design width rule %d: invalid pattern %q", i, r.Pattern)
		}
	}
	return nil
}

// WidthByPath returns design width selected by Source.File: the first
// matching rule wins, fallback is used when nothing matches or the source
// has no file. It is typically used to give third party component libraries
// their own design width.
func WidthByPath(rules []PathWidth, fallback float64) DesignWidth {
	if len(rules) == 0 {
		return FixedWidth(fallback)
	}
	return WidthFunc(func(src Source) float64 {
		if src.File == "" {
			return fallback
		}
		name := filepath.ToSlash(src.File)
		for _, r := range rules {
			if matchPath(r.Pattern, name) {
				return r.Width
			}
		}
		return fallback
	})
}

// matchPath also tries relative form of absolute names, so patterns like
// "**/vant/**" match "/home/user/app/node_modules/vant/index.css".
func matchPath(pattern, name string) bool {
	if ok, _ := doublestar.Match(pattern, name); ok {
		return true
	}
	if rel := strings.TrimLeft(name, "/"); rel != name {
		ok, _ := doublestar.Match(pattern, rel)
		return ok
	}
	return false
}
