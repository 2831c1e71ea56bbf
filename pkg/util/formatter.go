package util

import (
	"fmt"
	"math"
)

// FormatValueFactor prints value with an SI prefix, 3 decimals.
func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case math.IsInf(value, 0) || math.IsNaN(value):
		return fmt.Sprintf("%v %s", value, unit)
	case absValue >= 1e6:
		return fmt.Sprintf("%.3f M%s", value/1e6, unit)
	case absValue >= 1e3:
		return fmt.Sprintf("%.3f k%s", value/1e3, unit)
	case absValue >= 1 || absValue == 0:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

func FormatVoltage(v float64) string { return FormatValueFactor(v, "V") }
func FormatCurrent(i float64) string { return FormatValueFactor(i, "A") }
func FormatPower(p float64) string   { return FormatValueFactor(p, "W") }

// FormatPercent prints a 0..1 ratio, used for bulb brightness.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%3.0f%%", ratio*100)
}
