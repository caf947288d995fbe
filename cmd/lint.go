package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zaliv/internal/api"
	"zaliv/internal/dsl"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate entity declarations and report advisory issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := dsl.LoadAll(cfg.DSLDir)
		if err != nil {
			return err
		}
		if err := m.Validate(); err != nil {
			color.Red("validation failed: %v", err)
			return err
		}
		issues := api.Lint(m)
		for _, it := range issues {
			where := it.Entity
			if it.Property != "" {
				where += "." + it.Property
			}
			color.Yellow("%s [%s] %s", where, it.Code, it.Message)
		}
		if len(issues) == 0 {
			color.Green("model OK: %d entities, %d relations", len(m.Entities), len(m.Relationships))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
