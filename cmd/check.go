package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/output"
	"github.com/Stefan/ppm-saas-sub008/internal/verify"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that test IDs exist and interactive elements are labelled",
	Long: `Check a list of test IDs without a structure manifest.

Every ID must be present. With --interactive, buttons, links, form controls
and elements with interactive roles must also have an accessible name.

Examples:
  structcheck check --html page.html --ids data-table-grid,data-table-next-page
  structcheck check --url http://localhost:3000/risks --ids risks-add-button --interactive`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("html", "", "Saved HTML file to check (- for stdin)")
	checkCmd.Flags().String("url", "", "URL to open in a browser")
	checkCmd.Flags().String("ids", "", "Comma-separated test IDs")
	checkCmd.Flags().Bool("interactive", false, "Also check accessible names of interactive elements")
}

func runCheck(cmd *cobra.Command, args []string) error {
	html, _ := cmd.Flags().GetString("html")
	url, _ := cmd.Flags().GetString("url")
	ids, _ := cmd.Flags().GetString("ids")
	interactive, _ := cmd.Flags().GetBool("interactive")

	target, err := verifyTarget(verifyOptions{html: html, url: url}, nil)
	if err != nil {
		return fmt.Errorf("specify --html or --url")
	}
	list := splitList(ids)
	if len(list) == 0 {
		return fmt.Errorf("--ids is required")
	}

	provider, err := openTarget(cmd.Context(), target)
	if err != nil {
		return err
	}
	defer closeProvider(provider)

	res := executeCheck(cmd.Context(), newVerifier(provider), target, list, interactive)
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.Passed {
		return errFailed
	}
	return nil
}

func executeCheck(ctx context.Context, v *verify.Verifier, source string, ids []string, interactive bool) output.CheckResult {
	res := output.CheckResult{Source: source, Existence: v.VerifyElementsExist(ctx, ids)}
	res.Passed = res.Existence.Passed
	if interactive {
		ir := v.VerifyInteractiveAccessibility(ctx, ids)
		res.Interactive = &ir
		res.Passed = res.Passed && ir.Passed
	}
	return res
}
