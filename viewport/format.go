package viewport

import (
	"math"
	"strconv"
)

// precisionFactors covers precisions people actually use.
var precisionFactors = [...]float64{1, 10, 100, 1e3, 1e4, 1e5, 1e6}

func precisionFactor(precision int) float64 {
	if precision >= 0 && precision < len(precisionFactors) {
		return precisionFactors[precision]
	}
	return math.Pow10(precision)
}

// formatNumber rounds num half away from zero to the number of decimal
// digits given by factor (10^precision) and prints the shortest
// representation: no trailing zeros, no trailing point, no negative zero.
func formatNumber(num, factor float64) (string, bool) {
	rounded := math.Round(num*factor) / factor
	if math.IsNaN(rounded) || math.IsInf(rounded, 0) {
		return "", false
	}
	if rounded == 0 {
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64), true
}
