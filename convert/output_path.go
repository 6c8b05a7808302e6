package convert

import (
	"path/filepath"

	"pxvw/state"
)

// buildOutputPath returns name of the file to store converted stylesheet
// to. Without destination stylesheet is converted in place, otherwise result
// goes under dst preserving directory structure relative to the source root
// unless NoDirs was requested.
func buildOutputPath(j job, dst string, env *state.LocalEnv) string {
	if dst == "" {
		return j.path
	}
	return filepath.Join(determineOutputDir(j.rel, dst, env), filepath.Base(j.rel))
}

func determineOutputDir(rel, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(rel))
}
