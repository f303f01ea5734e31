package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List page and component structures",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	addManifestFlag(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	reg, _, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	return output.Print(output.ListStructures(reg))
}
