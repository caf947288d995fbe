package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zaliv/internal/appconfig"
	"zaliv/internal/dsl"
	"zaliv/internal/mysql"
)

var (
	compileOut     string
	compileOrdered bool
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile entity declarations into a MySQL DDL script",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := dsl.LoadAll(cfg.DSLDir)
		if err != nil {
			return err
		}
		if err := m.Validate(); err != nil {
			return err
		}
		stmts, err := mysql.Compile(m, cfg.Database, mysql.CompileOptions{TopoOrder: compileOrdered})
		if err != nil {
			return err
		}
		script := mysql.Script(stmts)
		if compileOut == "" || compileOut == "-" {
			fmt.Print(script)
			return nil
		}
		if err := appconfig.WriteScript(compileOut, script); err != nil {
			return err
		}
		fmt.Printf("schema written: %s (%d statements)\n", compileOut, len(stmts))
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "output file (default: stdout)")
	compileCmd.Flags().BoolVar(&compileOrdered, "ordered", false, "emit entity tables in FK dependency order")
	rootCmd.AddCommand(compileCmd)
}
