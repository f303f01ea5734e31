package visual

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LoadImage decodes a PNG or JPEG file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SavePNG encodes img as PNG at path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// DiffPath returns where the diff artifact for actualPath is written.
func DiffPath(actualPath, diffDir string) string {
	base := strings.TrimSuffix(filepath.Base(actualPath), filepath.Ext(actualPath))
	return filepath.Join(diffDir, base+"-diff.png")
}

// CompareFiles compares two image files. When the comparison fails and
// diffDir is not empty, an annotated diff PNG is written there and its path
// recorded in the result.
func CompareFiles(baselinePath, actualPath string, t Thresholds, diffDir string) (Comparison, error) {
	baseline, err := LoadImage(baselinePath)
	if err != nil {
		return Comparison{}, fmt.Errorf("load baseline: %w", err)
	}
	actual, err := LoadImage(actualPath)
	if err != nil {
		return Comparison{}, fmt.Errorf("load actual: %w", err)
	}

	c := CompareWithCombinedThresholds(baseline, actual, t)
	if !c.Failed || diffDir == "" {
		return c, nil
	}

	annotate(c.DiffImage, fmt.Sprintf("%d px (%.2f%%) differ", c.DiffPixels, c.Ratio*100))
	path := DiffPath(actualPath, diffDir)
	if err := SavePNG(path, c.DiffImage); err != nil {
		return c, fmt.Errorf("write diff: %w", err)
	}
	c.DiffPath = path
	return c, nil
}

// annotate writes label in the top-left corner on a dark banner.
func annotate(img *image.RGBA, label string) {
	const charW, lineH, pad = 7, 13, 3
	b := img.Bounds()
	banner := image.Rect(b.Min.X, b.Min.Y, b.Min.X+len(label)*charW+2*pad, b.Min.Y+lineH+2*pad).Intersect(b)
	draw.Draw(img, banner, image.NewUniform(color.RGBA{A: 200}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(b.Min.X+pad, b.Min.Y+pad+basicfont.Face7x13.Ascent),
	}
	d.DrawString(label)
}
