package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/output"
	"github.com/Stefan/ppm-saas-sub008/internal/platform"
	"github.com/Stefan/ppm-saas-sub008/internal/testid"
	"github.com/Stefan/ppm-saas-sub008/internal/verify"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a page screenshot and compare it with its baseline",
	Long: `Open a page in a browser, wait for dynamic content, capture a screenshot
with the page's volatile regions masked, and compare it with the baseline.

A missing baseline is created from the capture. --update replaces it.

Examples:
  structcheck snapshot --page Dashboard
  structcheck snapshot --page Financials --url http://localhost:3000/financials --threshold 0.001
  structcheck snapshot --page Risks --update`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().String("page", "", "Page structure name (required)")
	snapshotCmd.Flags().String("url", "", "URL to open (default: STRUCTCHECK_BASE_URL + page path)")
	snapshotCmd.Flags().String("baseline", "", "Baseline image (default: <baseline_dir>/<page>.png)")
	snapshotCmd.Flags().String("actual", "", "Where to write the capture (default: <output_dir>/<page>.png)")
	snapshotCmd.Flags().Bool("update", false, "Overwrite the baseline with this capture")
	snapshotCmd.Flags().Bool("full-page", true, "Capture the full scrollable page")
	addThresholdFlags(snapshotCmd)
	addManifestFlag(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	pageName, _ := cmd.Flags().GetString("page")
	url, _ := cmd.Flags().GetString("url")
	baseline, _ := cmd.Flags().GetString("baseline")
	actual, _ := cmd.Flags().GetString("actual")
	update, _ := cmd.Flags().GetBool("update")
	if pageName == "" {
		return fmt.Errorf("--page is required")
	}

	project, err := loadProject()
	if err != nil {
		return err
	}
	t, diffDir, err := thresholdsFromFlags(cmd, project.Visual)
	if err != nil {
		return err
	}
	fullPage := project.Visual.FullPage
	if cmd.Flags().Changed("full-page") {
		fullPage, _ = cmd.Flags().GetBool("full-page")
	}

	reg, _, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	page, err := reg.Page(pageName)
	if err != nil {
		return err
	}

	name := testid.Normalize(page.Name) + ".png"
	if baseline == "" {
		baseline = filepath.Join(project.Visual.BaselineDir, name)
	}
	if actual == "" {
		actual = filepath.Join(project.OutputDir, name)
	}
	target, err := verifyTarget(verifyOptions{url: url}, &page)
	if err != nil {
		return err
	}

	provider, err := openTarget(cmd.Context(), target)
	if err != nil {
		return err
	}
	defer closeProvider(provider)

	opts := platform.ScreenshotOptions{FullPage: fullPage, MaskSelectors: page.MaskSelectors}
	if err := capture(cmd.Context(), provider, page.WaitForSelector, opts, actual); err != nil {
		return err
	}

	if _, err := os.Stat(baseline); update || errors.Is(err, os.ErrNotExist) {
		if err := copyFile(actual, baseline); err != nil {
			return fmt.Errorf("write baseline: %w", err)
		}
		log.Info().Str("baseline", baseline).Msg("baseline written")
	}

	res, err := compareImages(baseline, actual, t, diffDir)
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

// capture waits for the page to settle and writes a PNG screenshot to path.
func capture(ctx context.Context, p *platform.Provider, selector string, opts platform.ScreenshotOptions, path string) error {
	if p.Screenshotter == nil {
		return fmt.Errorf("screenshot: %w", platform.ErrUnsupported)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if p.Waiter != nil {
		wait := settings().Wait
		if selector != "" {
			wait.Selector = selector
		}
		if report := verify.WaitForDynamicContent(ctx, p.Waiter, wait); !report.OK() {
			log.Warn().Int("failures", len(report.Failures)).Msg("capturing before the page settled")
		}
	}

	png, err := p.Screenshotter.Capture(ctx, opts)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
