package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/classifieds-backend/internal/config"
	"github.com/ignatzorin/classifieds-backend/internal/db"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
)

var (
	// Глобальные флаги
	dbURL      string
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "adsctl",
	Short: "Администрирование доски объявлений",
	Long: `adsctl обслуживает базу доски объявлений без запуска HTTP сервера.

Команды читают ту же конфигурацию окружения, что и сервер (.env, DATABASE_URL, AD_STORE).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.Init("debug")
		} else {
			logger.Init("warn")
		}
		logger.SetTextFormatter()
	},
}

// Execute запускает корневую команду.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "URL базы PostgreSQL (по умолчанию DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Вывод в JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Подробный лог")
}

// loadConfig читает конфигурацию и применяет флаг --db.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	return cfg, nil
}

// openDB подключается к PostgreSQL. Закрытие на вызывающем.
func openDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("подключение к базе: %w", err)
	}
	return conn, nil
}
