package cli

import (
	"cookieshop/internal/app"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update database tables",
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

			if err := a.Migrate(cmdContext(cmd)); err != nil {
				return err
			}
			log.Info("migration completed")
			return nil
		},
	}
}
