package gradient

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// AverageColorComputer is a minimal stand-in for the external gradient
// computation collaborator spec §4.6 step 5 puts out of scope: it decodes
// the image and derives a primary/secondary color pair from pixel averages
// so the worker pipeline is exercisable without a real design-system
// dependency. No corpus library performs palette extraction, so this is
// built directly on the standard image package.
type AverageColorComputer struct{}

func NewAverageColorComputer() *AverageColorComputer {
	return &AverageColorComputer{}
}

func (c *AverageColorComputer) ComputeGradient(data []byte) (*Palette, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	var rSum, gSum, bSum, count int64
	var rLightSum, gLightSum, bLightSum, lightCount int64
	var rDarkSum, gDarkSum, bDarkSum, darkCount int64

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			r8, g8, b8 := int64(r>>8), int64(g>>8), int64(b>>8)
			rSum += r8
			gSum += g8
			bSum += b8
			count++

			luma := (r8*299 + g8*587 + b8*114) / 1000
			if luma >= 128 {
				rLightSum += r8
				gLightSum += g8
				bLightSum += b8
				lightCount++
			} else {
				rDarkSum += r8
				gDarkSum += g8
				bDarkSum += b8
				darkCount++
			}
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	primary := hexColor(rSum/count, gSum/count, bSum/count)

	secondary := primary
	if lightCount > 0 {
		secondary = hexColor(rLightSum/lightCount, gLightSum/lightCount, bLightSum/lightCount)
	} else if darkCount > 0 {
		secondary = hexColor(rDarkSum/darkCount, gDarkSum/darkCount, bDarkSum/darkCount)
	}

	foreground := "#ffffff"
	if (rSum/count*299+gSum/count*587+bSum/count*114)/1000 >= 128 {
		foreground = "#000000"
	}

	return &Palette{
		Palette:     []string{primary, secondary},
		Primary:     primary,
		Secondary:   secondary,
		Foreground:  foreground,
		CSS:         fmt.Sprintf("linear-gradient(135deg, %s, %s)", primary, secondary),
		BlurDataURL: "data:image/svg+xml;base64," + tinySvgBlur(primary, secondary),
	}, nil
}

func hexColor(r, g, b int64) string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func tinySvgBlur(primary, secondary string) string {
	svg := fmt.Sprintf(
		`<svg xmlns='http://www.w3.org/2000/svg' width='8' height='8'><rect width='8' height='8' fill='%s'/><rect width='4' height='8' fill='%s'/></svg>`,
		secondary, primary,
	)
	return base64.StdEncoding.EncodeToString([]byte(svg))
}
