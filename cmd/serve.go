package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fairq/fairq/api"
	"github.com/fairq/fairq/pool"
)

const shutdownTimeout = 10 * time.Second

func getServeCmd(ctx context.Context, logger *logrus.Logger) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the session pool server",
		Long: `Start the session pool server.

The server keeps a bounded pool of lazily provisioned sessions and exposes a
REST API for checking them out, inspecting the pool state and scraping
Prometheus metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := getConsolidatedConfig(afero.NewOsFs(), getConfig(cmd.Flags()), buildEnvMap(os.Environ()))
			if err != nil {
				return err
			}
			if err := validateConfig(conf); err != nil {
				return err
			}

			cs, err := api.NewControlSurface(logger, conf.Config, api.SessionOptions{
				ProvisionDelay: conf.ProvisionDelay.TimeDuration(),
			})
			if err != nil {
				return err
			}

			srv := api.GetServer(address, cs)
			errC := make(chan error, 1)
			go func() {
				logger.WithField("addr", address).Info("Starting the REST API server")
				errC <- srv.ListenAndServe()
			}()

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errC:
				return err
			case <-sigCtx.Done():
			}

			logger.Info("Shutting down the REST API server")
			shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutCtx)
		},
	}
	serveCmd.Flags().SortFlags = false
	serveCmd.Flags().AddFlagSet(serveCmdFlagSet())
	return serveCmd
}

func serveCmdFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.Int64P("capacity", "n", pool.DefaultCapacity,
		"maximum concurrently provisioned sessions, 0 disables pooling")
	flags.Duration("timeout", pool.DefaultTimeout,
		"how long a checkout waits for a free slot, 0 fails fast, negative waits without bound")
	flags.Duration("provision-delay", 0, "artificial delay when provisioning a new session")
	return flags
}
