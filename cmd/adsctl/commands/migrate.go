package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/classifieds-backend/internal/app"
	"github.com/ignatzorin/classifieds-backend/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить недостающие миграции",
	Long: `Применяет миграции, которых ещё нет в schema_migrations.

Без MIGRATIONS_PATH используются миграции, встроенные в бинарник.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		conn, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		applied, err := db.RunMigrations(ctx, conn, app.MigrationsFS(cfg))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, map[string]interface{}{"applied": applied})
		}
		if len(applied) == 0 {
			fmt.Fprintln(out, "База в актуальном состоянии")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintf(out, "применена %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
