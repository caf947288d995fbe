package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zaliv/internal/appconfig"
	"zaliv/internal/dsl"
	"zaliv/internal/mysql"
	"zaliv/internal/provision"
)

var (
	upApply bool
	upKeep  bool
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Provision a local MySQL container and write connection artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := dsl.LoadAll(cfg.DSLDir)
		if err != nil {
			return err
		}
		if err := m.Validate(); err != nil {
			return err
		}
		// init-hook исполняет скрипт с включённой проверкой FK,
		// поэтому по умолчанию таблицы идут в порядке зависимостей
		stmts, err := mysql.Compile(m, cfg.Database, mysql.CompileOptions{TopoOrder: cfg.Ordered})
		if err != nil {
			return err
		}

		scriptPath := filepath.Join(cfg.OutDir, "schema.sql")
		if err := appconfig.WriteScript(scriptPath, mysql.Script(stmts)); err != nil {
			return err
		}
		fmt.Printf("schema written: %s (%d statements)\n", scriptPath, len(stmts))

		color.Cyan("starting %s ...", cfg.Image)
		ctx := cmd.Context()
		inst, err := provision.Up(ctx, provision.Params{
			Image:      cfg.Image,
			Database:   cfg.Database,
			User:       cfg.DBUser,
			ScriptPath: scriptPath,
			Keep:       upKeep,
		})
		if err != nil {
			return err
		}

		conn := &appconfig.Connection{
			Host:     inst.Host,
			Port:     inst.Port,
			Database: inst.Database,
			User:     inst.User,
			Password: inst.Password,
		}
		yamlPath := filepath.Join(cfg.OutDir, "database.yaml")
		envPath := filepath.Join(cfg.OutDir, "database.env")
		if err := appconfig.WriteYAML(yamlPath, conn); err != nil {
			return err
		}
		if err := appconfig.WriteEnv(envPath, conn); err != nil {
			return err
		}

		if upApply {
			// повторный прогон того же скрипта по живой базе:
			// проверка идемпотентности (DROP ... IF EXISTS перед CREATE).
			// Через root — CREATE DATABASE прикладному пользователю не дан.
			db, err := mysql.Open(inst.RootDSN())
			if err != nil {
				return err
			}
			defer db.Close()
			actx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
			if err := mysql.Apply(actx, db, stmts); err != nil {
				return err
			}
			color.Green("schema re-applied: %d statements", len(stmts))
		}

		color.Green("mysql ready: %s:%d/%s", inst.Host, inst.Port, inst.Database)
		fmt.Printf("container: %s\n", inst.ContainerID)
		fmt.Printf("artifacts: %s, %s\n", yamlPath, envPath)
		return nil
	},
}

func init() {
	upCmd.Flags().BoolVar(&upApply, "apply", false, "re-run the compiled script against the live instance")
	upCmd.Flags().BoolVar(&upKeep, "keep", true, "leave the container running after zaliv exits")
	rootCmd.AddCommand(upCmd)
}
