package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"zaliv/internal/api"
	"zaliv/internal/dsl"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the entity model meta API",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := dsl.LoadAll(cfg.DSLDir)
		if err != nil {
			return err
		}
		if err := m.Validate(); err != nil {
			return err
		}
		reg := api.NewRegistry(m, cfg)
		addr := ":" + cfg.APIPort
		log.Printf("zaliv meta API on %s (entities: %d)", addr, len(m.Entities))
		return api.RunServer(addr, reg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
