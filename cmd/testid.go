package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/output"
	"github.com/Stefan/ppm-saas-sub008/internal/platform"
	"github.com/Stefan/ppm-saas-sub008/internal/testid"
)

// TestIDResult is the output of the testid command.
type TestIDResult struct {
	TestID   string `yaml:"testId"   json:"testId"`
	Selector string `yaml:"selector" json:"selector"`
}

var testidCmd = &cobra.Command{
	Use:   "testid <component> [element] [variant]",
	Short: "Generate a test ID",
	Long: `Generate the kebab-case test ID for a component, element and variant.

Examples:
  structcheck testid KPICard                 # kpicard
  structcheck testid DataTable "next page"   # data-table-next-page
  structcheck testid KPICard trend up        # kpicard-trend-up`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runTestID,
}

func init() {
	rootCmd.AddCommand(testidCmd)
}

func runTestID(cmd *cobra.Command, args []string) error {
	var element, variant string
	if len(args) > 1 {
		element = args[1]
	}
	if len(args) > 2 {
		variant = args[2]
	}

	id := testid.Generate(args[0], element, variant)
	if id == "" {
		return fmt.Errorf("no usable characters in %q", args)
	}
	return output.Print(TestIDResult{
		TestID:   id,
		Selector: platform.TestIDSelector(settings().TestIDAttribute, id),
	})
}
