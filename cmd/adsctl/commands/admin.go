package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/repository"
	"github.com/ignatzorin/classifieds-backend/internal/service"
)

var (
	adminEmail    string
	adminPassword string
	adminUsername string
)

// Регистрация через API всегда выдаёт роль user, первого модератора создаёт эта команда.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Создать учётную запись администратора",
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

		tokens := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
		auth := service.NewAuthService(repository.NewUserRepository(conn), tokens)

		user, err := auth.CreateUser(ctx, adminEmail, adminUsername, adminPassword, models.RoleAdmin)
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), user)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "администратор %s создан (%s)\n", user.Email, user.ID)
		return err
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Email администратора")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Пароль")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Имя пользователя (по умолчанию из email)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createAdminCmd)
}
