package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/config"
	"github.com/Stefan/ppm-saas-sub008/internal/output"
	"github.com/Stefan/ppm-saas-sub008/internal/visual"
)

var compareCmd = &cobra.Command{
	Use:   "compare <baseline> <actual>",
	Short: "Compare two screenshots",
	Long: `Compare two PNG or JPEG screenshots pixel by pixel.

The comparison fails when the fraction of differing pixels exceeds
--threshold, or when --max-diff-pixels is set and the count of differing
pixels exceeds it. On failure a diff image is written to --diff-dir.

Defaults come from the visual section of .structcheck.yaml.

Examples:
  structcheck compare baseline.png actual.png
  structcheck compare baseline.png actual.png --threshold 0.001 --max-diff-pixels 50`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	addThresholdFlags(compareCmd)
}

func addThresholdFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("threshold", 0, "Fraction of pixels allowed to differ, 0-1 (default from project config)")
	cmd.Flags().Int("max-diff-pixels", visual.NoPixelLimit, "Absolute differing-pixel limit, -1 for none (default from project config)")
	cmd.Flags().Uint8("tolerance", 0, "Per-channel difference treated as equal, 0-255 (default from project config)")
	cmd.Flags().String("diff-dir", "", "Directory for diff images (default from project config)")
}

// thresholdsFromFlags starts from the project's visual settings and applies
// any threshold flags the user set.
func thresholdsFromFlags(cmd *cobra.Command, vc config.VisualConfig) (visual.Thresholds, string, error) {
	t := vc.Thresholds()
	diffDir := vc.DiffDir

	if cmd.Flags().Changed("threshold") {
		t.Percentage, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("max-diff-pixels") {
		t.MaxDiffPixels, _ = cmd.Flags().GetInt("max-diff-pixels")
	}
	if cmd.Flags().Changed("tolerance") {
		t.ChannelTolerance, _ = cmd.Flags().GetUint8("tolerance")
	}
	if cmd.Flags().Changed("diff-dir") {
		diffDir, _ = cmd.Flags().GetString("diff-dir")
	}

	if t.Percentage < 0 || t.Percentage > 1 {
		return t, "", fmt.Errorf("--threshold must be between 0 and 1, got %g", t.Percentage)
	}
	return t, diffDir, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	project, err := loadProject()
	if err != nil {
		return err
	}
	t, diffDir, err := thresholdsFromFlags(cmd, project.Visual)
	if err != nil {
		return err
	}

	res, err := compareImages(args[0], args[1], t, diffDir)
	if err != nil {
		return err
	}
	if err := output.Print(res); err != nil {
		return err
	}
	if res.Comparison.Failed {
		return fmt.Errorf("%w: %s", errFailed, res.Comparison.Reason)
	}
	return nil
}

// compareImages compares two image files. A diff image that cannot be
// written is logged; the comparison result still stands.
func compareImages(baseline, actual string, t visual.Thresholds, diffDir string) (output.CompareResult, error) {
	c, err := visual.CompareFiles(baseline, actual, t, diffDir)
	if err != nil && c.TotalPixels == 0 {
		return output.CompareResult{}, err
	}
	if err != nil {
		log.Warn().Err(err).Str("actual", actual).Msg("diff image not written")
	}
	log.Debug().
		Int("diffPixels", c.DiffPixels).
		Int("totalPixels", c.TotalPixels).
		Bool("resized", c.Resized).
		Msg("images compared")
	return output.CompareResult{Baseline: baseline, Actual: actual, Thresholds: t, Comparison: c}, nil
}
