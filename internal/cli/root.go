package cli

import (
	"os"

	"cookieshop/internal/config"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var envFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cookieshop",
		Short:         "cookieshop backend API and admin tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		// サブコマンド無しはserve
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to .env file (optional)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCreateAdminCmd(),
		newProductsCmd(),
	)
	return root
}

// main から呼ぶ
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}
	return config.Load()
}
