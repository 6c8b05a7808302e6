package convert

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pxvw/config"
	"pxvw/state"
)

func relNames(jobs []job) []string {
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, filepath.ToSlash(j.rel))
	}
	return names
}

func TestSelector_Discover(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"a10.css", "a2.css", "a1.css",
		"lib/theme.css", "lib/theme.less",
		"dist/bundle.css",
		"node_modules/vant/index.css",
		"out/old.css",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(name)), "")
	}

	tests := []struct {
		name    string
		include []string
		exclude []string
		dst     string
		want    []string
	}{
		{
			name:    "defaults",
			include: []string{"**/*.css"},
			want:    []string{"a1.css", "a2.css", "a10.css", "dist/bundle.css", "lib/theme.css", "node_modules/vant/index.css", "out/old.css"},
		},
		{
			name:    "exclude directory",
			include: []string{"**/*.css"},
			exclude: []string{"dist/**", "out"},
			want:    []string{"a1.css", "a2.css", "a10.css", "lib/theme.css", "node_modules/vant/index.css"},
		},
		{
			name:    "exclude files",
			include: []string{"**/*.css", "**/*.less"},
			exclude: []string{"a?.css"},
			want:    []string{"a10.css", "dist/bundle.css", "lib/theme.css", "lib/theme.less", "node_modules/vant/index.css", "out/old.css"},
		},
		{
			name:    "destination ignored",
			include: []string{"**/*.css"},
			exclude: []string{"node_modules/**"},
			dst:     filepath.Join(root, "out"),
			want:    []string{"a1.css", "a2.css", "a10.css", "dist/bundle.css", "lib/theme.css"},
		},
		{
			name:    "top level only",
			include: []string{"*.css"},
			want:    []string{"a1.css", "a2.css", "a10.css"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := &config.ProcessingConfig{Include: tt.include, Exclude: tt.exclude}
			sel, err := newSelector(root, tt.dst, proc)
			require.NoError(t, err)

			jobs, err := sel.discover(context.Background(), zaptest.NewLogger(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, relNames(jobs))
			for _, j := range jobs {
				assert.Equal(t, filepath.Join(root, j.rel), j.path)
			}
		})
	}
}

func TestSelector_SingleFile(t *testing.T) {
	root := t.TempDir()
	name := filepath.Join(root, "sub", "page.scss")
	writeFile(t, name, "")
	writeFile(t, filepath.Join(root, "sub", "other.css"), "")

	sel, err := newSelector(name, "", &config.ProcessingConfig{Include: []string{"**/*.css"}})
	require.NoError(t, err)

	jobs, err := sel.discover(context.Background(), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job{path: name, rel: "page.scss"}, jobs[0])

	_, ok := sel.selectFile(filepath.Join(root, "sub", "other.css"))
	assert.False(t, ok)
	assert.True(t, sel.skipDir(filepath.Join(root, "sub", "nested")))
	assert.False(t, sel.skipDir(sel.root))
}

func TestSelector_Missing(t *testing.T) {
	_, err := newSelector(filepath.Join(t.TempDir(), "absent.css"), "", &config.ProcessingConfig{})
	require.Error(t, err)
}

func TestSelector_Relative(t *testing.T) {
	root := t.TempDir()
	sel := &selector{root: root, ignore: filepath.Join(root, "out")}

	rel, ok := sel.relative(filepath.Join(root, "a", "b.css"))
	assert.True(t, ok)
	assert.Equal(t, "a/b.css", rel)

	for _, name := range []string{
		root,
		filepath.Dir(root),
		filepath.Join(filepath.Dir(root), "sibling.css"),
		filepath.Join(root, "out"),
		filepath.Join(root, "out", "x.css"),
	} {
		_, ok := sel.relative(name)
		assert.False(t, ok, name)
	}

	// prefix of ignored directory is not ignored
	_, ok = sel.relative(filepath.Join(root, "outline.css"))
	assert.True(t, ok)
}

func TestBuildOutputPath(t *testing.T) {
	j := job{path: filepath.Join("/src", "books", "author", "book.css"), rel: filepath.Join("books", "author", "book.css")}

	tests := []struct {
		name   string
		dst    string
		noDirs bool
		want   string
	}{
		{"in place", "", false, j.path},
		{"in place ignores nodirs", "", true, j.path},
		{"with dirs", "/output", false, filepath.Join("/output", "books", "author", "book.css")},
		{"no dirs", "/output", true, filepath.Join("/output", "book.css")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &state.LocalEnv{NoDirs: tt.noDirs}
			if got := buildOutputPath(j, tt.dst, env); got != tt.want {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
