package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCents(t *testing.T) {
	assert.Equal(t, 370350.49, Cents(370350.4896))
	assert.Equal(t, 0.13, Cents(0.125))
	assert.Equal(t, -2.5, Cents(-2.499))
}

func TestFormat(t *testing.T) {
	cases := map[float64]string{
		370350.4896: "$370,350.49",
		208000:      "$208,000.00",
		0:           "$0.00",
		999.999:     "$1,000.00",
		-1234.5:     "-$1,234.50",
	}
	for in, want := range cases {
		assert.Equalf(t, want, Format(in), "Format(%v)", in)
	}
}

func TestFormatWhole(t *testing.T) {
	assert.Equal(t, "$370,350", FormatWhole(370350.4896))
	assert.Equal(t, "$1,000", FormatWhole(999.5))
	assert.Equal(t, "-$12", FormatWhole(-12.2))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "8.0%", Percent(8))
	assert.Equal(t, "10.0%", Percent(10.01))
	assert.Equal(t, "12.5%", Percent(12.5))
}
