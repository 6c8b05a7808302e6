package plugin

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pxvw/common"
	"pxvw/viewport"
)

func defaultOptions() viewport.Options {
	return viewport.Options{
		DesignWidth:   viewport.FixedWidth(375),
		BaseFontSize:  viewport.Ptr(16.0),
		UnitPrecision: viewport.Ptr(5),
		OutputUnit:    viewport.Ptr(common.OutputUnitVw),
		MinPixelValue: viewport.Ptr(0.0),
	}
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name  string
		opts  viewport.Options
		input string
		want  string
	}{
		{
			name:  "declarations",
			opts:  defaultOptions(),
			input: ".test { width: 100px; height: 2rem; margin: 10px 5rem; }",
			want:  ".test { width: 26.66667vw; height: 8.53333vw; margin: 2.66667vw 21.33333vw; }",
		},
		{
			name:  "multiple selectors",
			opts:  defaultOptions(),
			input: ".a { font-size: 16px; } .b { padding: 1rem; }",
			want:  ".a { font-size: 4.26667vw; } .b { padding: 4.26667vw; }",
		},
		{
			name:  "non convertible values",
			opts:  defaultOptions(),
			input: ".test { color: red; display: flex; width: 100%; height: 50vh; }",
			want:  ".test { color: red; display: flex; width: 100%; height: 50vh; }",
		},
		{
			name:  "default options",
			opts:  viewport.Options{},
			input: ".test { width: 100px; }",
			want:  ".test { width: 26.66667vw; }",
		},
		{
			name:  "min pixel value",
			opts:  viewport.Options{MinPixelValue: viewport.Ptr(3.0)},
			input: ".test { width: 1px; height: 5px; margin: 2px; }",
			want:  ".test { width: 1px; height: 1.33333vw; margin: 2px; }",
		},
		{
			name:  "media query prelude",
			opts:  defaultOptions(),
			input: "@media (max-width: 750px) { .a { top: 75px } }",
			want:  "@media (max-width: 750px) { .a { top: 20vw } }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.opts, WithLogger(zaptest.NewLogger(t)))
			res, err := p.Process([]byte(tt.input), viewport.Source{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.String())
		})
	}
}

func TestBegin_ResolvesOncePerPass(t *testing.T) {
	var calls atomic.Int32
	opts := viewport.Options{DesignWidth: viewport.WidthFunc(func(src viewport.Source) float64 {
		calls.Add(1)
		if src.File == "node_modules/vant/index.css" {
			return 375
		}
		return 750
	})}
	p := New(opts)

	vant, err := p.Begin(viewport.Source{File: "node_modules/vant/index.css"})
	require.NoError(t, err)
	app, err := p.Begin(viewport.Source{File: "src/app.css"})
	require.NoError(t, err)

	for range 5 {
		assert.Equal(t, "2.66667vw", vant.Declaration("10px"))
		assert.Equal(t, "1.33333vw", app.Declaration("10px"))
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 375.0, vant.Config().DesignWidth)
	assert.Equal(t, "src/app.css", app.Source().File)
}

func TestBegin_InvalidConfiguration(t *testing.T) {
	p := New(viewport.Options{DesignWidth: viewport.FixedWidth(0)})

	pass, err := p.Begin(viewport.Source{File: "a.css"})
	require.ErrorIs(t, err, viewport.ErrInvalidConfiguration)
	assert.Nil(t, pass)

	res, err := p.Process([]byte(".a { width: 10px }"), viewport.Source{File: "a.css"})
	require.ErrorIs(t, err, viewport.ErrInvalidConfiguration)
	assert.Nil(t, res)
}

func TestDeclaration_Cache(t *testing.T) {
	p := New(defaultOptions(), WithCacheSize(2))
	pass, err := p.Begin(viewport.Source{})
	require.NoError(t, err)
	require.NotNil(t, pass.cache)

	assert.Equal(t, "", pass.Declaration(""))
	assert.Equal(t, "2.66667vw", pass.Declaration("10px"))
	assert.Equal(t, "2.66667vw", pass.Declaration("10px"))
	assert.Equal(t, "auto", pass.Declaration("auto"))
	assert.Equal(t, 2, pass.cache.Len())

	// cache is bounded
	assert.Equal(t, "4.26667vw", pass.Declaration("1rem"))
	assert.Equal(t, 2, pass.cache.Len())
}

func TestDeclaration_NoCache(t *testing.T) {
	p := New(defaultOptions(), WithCacheSize(0))
	pass, err := p.Begin(viewport.Source{})
	require.NoError(t, err)
	assert.Nil(t, pass.cache)
	assert.Equal(t, "-2.66667vw", pass.Declaration("-10px"))
}

func TestDeclaration_Concurrent(t *testing.T) {
	p := New(defaultOptions(), WithCacheSize(16))
	pass, err := p.Begin(viewport.Source{})
	require.NoError(t, err)

	values := map[string]string{
		"10px":        "2.66667vw",
		"5rem":        "21.33333vw",
		"1px solid":   "0.26667vw solid",
		"0 auto":      "0 auto",
		"calc(100px)": "calc(26.66667vw)",
	}

	var wg sync.WaitGroup
	for range 32 {
		wg.Go(func() {
			for range 50 {
				for in, want := range values {
					assert.Equal(t, want, pass.Declaration(in))
				}
			}
		})
	}
	wg.Wait()
}
