package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"zaliv/internal/config"
)

var (
	cfgPath string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "zaliv",
	Short: "Bootstrap a local MySQL instance from declarative entity files",
	Long: `zaliv reads entity declarations (*.dsl), compiles them into a MySQL DDL
script and provisions a local MySQL container with the script mounted
into its init hook. Connection artifacts (database.yaml, database.env)
are written for the dependent application.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.LoadWithPath(cfgPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "zaliv.json", "path to config JSON")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
