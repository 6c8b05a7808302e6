package viewport

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"pxvw/common"
)

// unitPattern matches both source units at once so a value is rewritten in a
// single left to right pass. Output units (vw, vmin) never match it.
var unitPattern = regexp.MustCompile(`(-?[\d.]+)(px|rem)`)

// Convert returns value with every eligible px and rem length replaced by its
// viewport equivalent. Everything else in value is kept as is.
func Convert(value string, cfg *Config) string {
	if cfg == nil || !hasSourceUnit(value) {
		return value
	}

	matches := unitPattern.FindAllStringSubmatchIndex(value, -1)
	if len(matches) == 0 {
		return value
	}

	factor := precisionFactor(cfg.UnitPrecision)
	suffix := cfg.OutputUnit.Suffix()

	var b strings.Builder
	b.Grow(len(value) + len(matches)*4)

	last := 0
	for _, m := range matches {
		b.WriteString(value[last:m[0]])
		b.WriteString(cfg.convertToken(value[m[0]:m[1]], value[m[2]:m[3]], value[m[4]:m[5]], factor, suffix))
		last = m[1]
	}
	b.WriteString(value[last:])
	return b.String()
}

// Convert is a shortcut for Convert(value, c).
func (c *Config) Convert(value string) string {
	return Convert(value, c)
}

// hasSourceUnit is a cheap check for values which never need the regexp:
// colors, keywords, percentages and the like.
func hasSourceUnit(value string) bool {
	return strings.Contains(value, "px") || strings.Contains(value, "rem")
}

func (c *Config) convertToken(match, number, unit string, factor float64, suffix string) string {
	num, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return match
	}

	su, err := common.ParseSourceUnit(unit)
	if err != nil {
		return match
	}

	px := su.Pixels(num, c.BaseFontSize)
	if math.Abs(px) < c.MinPixelValue {
		return match
	}

	out, ok := formatNumber(px*c.ViewportRatio, factor)
	if !ok {
		return match
	}
	return out + suffix
}
