package cmd

import (
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"paidfor/internal/api"
	"paidfor/internal/notify"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP bridge for the SMS receiver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			c, err := a.categorizer()
			if err != nil {
				return err
			}

			policy := notify.Policy{
				MinAmount: decimal.NewFromFloat(a.cfg.Notify.MinAmount),
				Debounce:  a.cfg.Notify.Debounce,
			}
			handler := notify.NewHandler(st, notify.NewLogNotifier(a.logger), policy, a.logger,
				notify.WithCategorizer(c))
			server := api.New(handler, st, a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- server.Listen(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				a.logger.Info("Shutting down")
				if err := server.Shutdown(); err != nil {
					return err
				}
				return <-errCh
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}
