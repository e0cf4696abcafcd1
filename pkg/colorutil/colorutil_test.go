package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ef4444")
	require.NoError(t, err)
	assert.Equal(t, Red, c)

	short, err := ParseHex("#fff")
	require.NoError(t, err)
	assert.Equal(t, White, short)

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("zzzzzz")
	assert.Error(t, err)
}

func TestHexRoundTrip(t *testing.T) {
	for _, c := range Swatches {
		got, err := ParseHex(Hex(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestWithAlpha(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 128}, WithAlpha(Blue, 0.5))
	assert.Equal(t, uint8(255), WithAlpha(Blue, 2).A)
	assert.Equal(t, uint8(0), WithAlpha(Blue, -1).A)
}
