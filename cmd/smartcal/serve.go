package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"smart-calendar/internal/httpserver"
	"smart-calendar/pkg/locale"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the event pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loc := locale.New()
			uc, err := newPipeline(ctx, c.cfg, c.logger, loc, "")
			if err != nil {
				return err
			}
			srv, err := httpserver.New(c.logger, httpserver.Config{
				Port:         c.cfg.HTTPServer.Port,
				Mode:         c.cfg.HTTPServer.Mode,
				Environment:  c.cfg.Environment.Name,
				EventUseCase: uc,
				Locale:       loc,
			})
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}
