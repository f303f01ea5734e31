// Package visual compares screenshots against baselines.
package visual

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// NoPixelLimit disables the absolute pixel threshold.
const NoPixelLimit = -1

// Thresholds decide when two images differ too much. An image pair fails
// when the ratio of differing pixels exceeds Percentage, or when
// MaxDiffPixels is not negative and the differing pixel count exceeds it.
type Thresholds struct {
	Percentage       float64 `yaml:"percentage"       json:"percentage"`       // Fraction of pixels, e.g. 0.01 for 1%
	MaxDiffPixels    int     `yaml:"maxDiffPixels"    json:"maxDiffPixels"`    // NoPixelLimit disables
	ChannelTolerance uint8   `yaml:"channelTolerance" json:"channelTolerance"` // Per-channel delta treated as equal
}

// DefaultThresholds allows 1% of pixels to differ, with no absolute limit.
func DefaultThresholds() Thresholds {
	return Thresholds{Percentage: 0.01, MaxDiffPixels: NoPixelLimit, ChannelTolerance: 8}
}

// Comparison is the outcome of comparing two images.
type Comparison struct {
	DiffPixels  int         `yaml:"diffPixels"         json:"diffPixels"`
	TotalPixels int         `yaml:"totalPixels"        json:"totalPixels"`
	Ratio       float64     `yaml:"ratio"              json:"ratio"`
	Resized     bool        `yaml:"resized,omitempty"  json:"resized,omitempty"`
	Failed      bool        `yaml:"failed"             json:"failed"`
	Reason      string      `yaml:"reason,omitempty"   json:"reason,omitempty"`
	DiffPath    string      `yaml:"diffPath,omitempty" json:"diffPath,omitempty"`
	DiffImage   *image.RGBA `yaml:"-"                  json:"-"`
}

// ExceedsThresholds applies the combined threshold rule to raw counts and
// returns a reason when it fails.
func ExceedsThresholds(diffPixels, totalPixels int, t Thresholds) (bool, string) {
	ratio := 0.0
	if totalPixels > 0 {
		ratio = float64(diffPixels) / float64(totalPixels)
	}
	if ratio > t.Percentage {
		return true, fmt.Sprintf("%.4f%% of pixels differ, limit %.4f%%", ratio*100, t.Percentage*100)
	}
	if t.MaxDiffPixels >= 0 && diffPixels > t.MaxDiffPixels {
		return true, fmt.Sprintf("%d pixels differ, limit %d", diffPixels, t.MaxDiffPixels)
	}
	return false, ""
}

// CompareWithCombinedThresholds compares actual against baseline pixel by
// pixel. An actual image of another size is rescaled to the baseline bounds
// first. The returned DiffImage shows the baseline faded with differing
// pixels in red.
func CompareWithCombinedThresholds(baseline, actual image.Image, t Thresholds) Comparison {
	bounds := baseline.Bounds()
	var c Comparison

	if actual.Bounds().Size() != bounds.Size() {
		scaled := image.NewRGBA(bounds)
		draw.ApproxBiLinear.Scale(scaled, bounds, actual, actual.Bounds(), draw.Src, nil)
		actual = scaled
		c.Resized = true
	}

	diff := image.NewRGBA(bounds)
	ab := actual.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			bp := baseline.At(x, y)
			ap := actual.At(ab.Min.X+x-bounds.Min.X, ab.Min.Y+y-bounds.Min.Y)
			if pixelsMatch(bp, ap, t.ChannelTolerance) {
				diff.Set(x, y, fade(bp))
				continue
			}
			c.DiffPixels++
			diff.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	c.TotalPixels = bounds.Dx() * bounds.Dy()
	if c.TotalPixels > 0 {
		c.Ratio = float64(c.DiffPixels) / float64(c.TotalPixels)
	}
	c.Failed, c.Reason = ExceedsThresholds(c.DiffPixels, c.TotalPixels, t)
	c.DiffImage = diff
	return c
}

func pixelsMatch(a, b color.Color, tolerance uint8) bool {
	ar, ag, abl, aa := a.RGBA()
	br, bg, bbl, ba := b.RGBA()
	tol := uint32(tolerance) * 0x101
	return within(ar, br, tol) && within(ag, bg, tol) && within(abl, bbl, tol) && within(aa, ba, tol)
}

func within(a, b, tol uint32) bool {
	if a > b {
		return a-b <= tol
	}
	return b-a <= tol
}

// fade renders an unchanged pixel as light grey so changes stand out.
func fade(c color.Color) color.Color {
	g := color.GrayModel.Convert(c).(color.Gray)
	return color.RGBA{R: 191 + g.Y/4, G: 191 + g.Y/4, B: 191 + g.Y/4, A: 255}
}
