package gradient

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeSolidPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAverageColorComputer_SolidRedImage(t *testing.T) {
	computer := NewAverageColorComputer()
	data := encodeSolidPNG(t, color.RGBA{R: 255, G: 0, B: 0, A: 255})

	palette, err := computer.ComputeGradient(data)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", palette.Primary)
	assert.Equal(t, "#ff0000", palette.Secondary)
	assert.Contains(t, palette.CSS, "#ff0000")
	assert.NotEmpty(t, palette.BlurDataURL)
}

func TestAverageColorComputer_DarkImageUsesLightForeground(t *testing.T) {
	computer := NewAverageColorComputer()
	data := encodeSolidPNG(t, color.RGBA{R: 10, G: 10, B: 10, A: 255})

	palette, err := computer.ComputeGradient(data)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", palette.Foreground)
}

func TestAverageColorComputer_RejectsUndecodableBytes(t *testing.T) {
	computer := NewAverageColorComputer()
	_, err := computer.ComputeGradient([]byte("not an image"))
	require.Error(t, err)
}
