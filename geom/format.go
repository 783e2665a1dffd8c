package geom

import (
	"fmt"
	"math"
	"strconv"
)

// FormatBearing renders a bearing as three zero-padded digits and a degree
// sign, e.g. 45 -> "045°".
func FormatBearing(deg float64) string {
	return fmt.Sprintf("%03d°", int(math.Round(deg)))
}

// FormatDistance renders nautical miles with one decimal, e.g. "10.5 NM".
func FormatDistance(nm float64) string {
	rounded := math.Round(nm*10) / 10
	return strconv.FormatFloat(rounded, 'f', 1, 64) + " NM"
}

// FormatVariance renders a signed variance as an absolute value with its
// hemisphere, e.g. -3.5 -> "3.5° W".
func FormatVariance(v float64) string {
	dir := "E"
	if v < 0 {
		dir = "W"
	}
	return strconv.FormatFloat(math.Abs(v), 'f', -1, 64) + "° " + dir
}
