package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// minFontSize bounds how far shrink-to-fit may go.
const minFontSize = 8.0

// drawCenteredText draws s centered on (cx, cy) on both axes. When maxWidth
// is positive and the text is wider, the font is shrunk to fit.
func (c *Compositor) drawCenteredText(dst draw.Image, s, fontName string, px float64, col color.Color, cx, cy, maxWidth float64) error {
	if s == "" || px <= 0 {
		return nil
	}
	face, err := c.fonts.Face(fontName, px)
	if err != nil {
		return err
	}

	adv := measure(face, s)
	if maxWidth > 0 && adv > maxWidth {
		shrunk := math.Max(px*maxWidth/adv, math.Min(px, minFontSize))
		face.Close()
		if face, err = c.fonts.Face(fontName, shrunk); err != nil {
			return err
		}
		adv = measure(face, s)
	}
	defer face.Close()

	m := face.Metrics()
	baseline := cy + (fixedToFloat(m.Ascent)-fixedToFloat(m.Descent))/2
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(cx - adv/2), Y: floatToFixed(baseline)},
	}
	d.DrawString(s)
	return nil
}

func measure(face font.Face, s string) float64 {
	return fixedToFloat(font.MeasureString(face, s))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
