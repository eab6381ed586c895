package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cookieshop/internal/app"
	"cookieshop/internal/server"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP server (migrates on start)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Migrate(ctx); err != nil {
		return err
	}

	e := a.Echo()
	log.Infof("listening on %s", cfg.Addr())
	return server.Start(ctx, e, cfg.Addr())
}

// cobraはcontextを持たないことがある
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
