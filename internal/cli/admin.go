package cli

import (
	"fmt"

	"cookieshop/internal/app"
	"cookieshop/internal/domain/model"
	"cookieshop/internal/usecase"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

// 最初の管理者を作る（APIのユーザー作成は管理者しかできないため）
func newCreateAdminCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "create an ADMIN user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.UserUC.Create(cmdContext(cmd), usecase.CreateUserInput{
				Email:    email,
				Password: password,
				Role:     string(model.RoleAdmin),
			})
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			log.Infof("admin created: id=%d email=%s", out.ID, out.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 6 chars)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
