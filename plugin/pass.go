package plugin

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"pxvw/css"
	"pxvw/viewport"
)

// Pass is a single stylesheet processing pass. It is safe for concurrent use.
type Pass struct {
	cfg   *viewport.Config
	src   viewport.Source
	cache *lru.Cache[string, string]
}

// Config returns configuration resolved for the pass.
func (p *Pass) Config() *viewport.Config {
	return p.cfg
}

// Source returns what the pass was started for.
func (p *Pass) Source() viewport.Source {
	return p.src
}

// Declaration returns converted declaration value, or value itself when
// there is nothing to convert.
func (p *Pass) Declaration(value string) string {
	if value == "" {
		return value
	}
	if p.cache == nil {
		return viewport.Convert(value, p.cfg)
	}
	if out, ok := p.cache.Get(value); ok {
		return out
	}
	out := viewport.Convert(value, p.cfg)
	p.cache.Add(value, out)
	return out
}

// Rewrite adapts Declaration to css.DeclarationFunc.
func (p *Pass) Rewrite(d css.Declaration) string {
	return p.Declaration(d.Value)
}
