package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValueFactor(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		want  string
	}{
		{0, "A", "0.000 A"},
		{12, "V", "12.000 V"},
		{-0.9, "A", "-900.000 mA"},
		{2.5e-3, "A", "2.500 mA"},
		{4.7e-6, "A", "4.700 uA"},
		{3e-9, "V", "3.000 nV"},
		{1e-12, "W", "1.000 pW"},
		{12000, "A", "12.000 kA"},
		{2.2e6, "Ω", "2.200 MΩ"},
		{1e-15, "V", "1.000e-15 V"},
		{math.Inf(1), "Ω", "+Inf Ω"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValueFactor(tt.value, tt.unit))
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "6.000 V", FormatVoltage(6))
	assert.Equal(t, "600.000 mA", FormatCurrent(0.6))
	assert.Equal(t, "3.600 W", FormatPower(3.6))
	assert.Equal(t, " 50%", FormatPercent(0.5))
	assert.Equal(t, "100%", FormatPercent(1))
}
