// finpath is the offline companion CLI: it generates synthetic profiles
// and runs the assessment and simulation engines against profile files
// without a running server.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finpath",
	Short: "Financial health scoring and trajectory simulation",
	Long:  "Assess a household's financial health and project its current vs improved path over a multi-year horizon.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd, assessCmd, simulateCmd)
}
