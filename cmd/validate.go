package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/manifest"
	"github.com/Stefan/ppm-saas-sub008/internal/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate structure manifests",
	Long: `Check every page and component structure for shape errors and report
warnings such as non-canonical test IDs.

Exit code 1 if any structure has errors.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addManifestFlag(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	reg, source, err := loadRegistry(cmd)

	var loadErr *manifest.LoadError
	if errors.As(err, &loadErr) {
		res := output.ValidateResult{
			Source:  source,
			Issues:  loadErr.Issues,
			Results: map[string]manifest.ValidationResult{},
		}
		if err := output.Print(res); err != nil {
			return err
		}
		return fmt.Errorf("%w: %d manifest errors", errFailed, len(loadErr.Issues))
	}
	if err != nil {
		return err
	}

	res := validateRegistry(reg, source)
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.Valid {
		return fmt.Errorf("%w: invalid structures in %s", errFailed, source)
	}
	return nil
}

// validateRegistry runs the validator over every structure in reg.
func validateRegistry(reg *manifest.Registry, source string) output.ValidateResult {
	res := output.ValidateResult{Valid: true, Source: source, Results: reg.ValidateAll()}
	for _, r := range res.Results {
		if !r.Valid {
			res.Valid = false
		}
	}
	return res
}
