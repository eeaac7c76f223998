package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fairq/fairq/api"
	"github.com/fairq/fairq/api/client"
)

// loadSummary tallies the outcome of every request made during a load run.
type loadSummary struct {
	mx sync.Mutex

	ok, busy, failed int64
	total, min, max  time.Duration
}

func (s *loadSummary) record(d time.Duration, err error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	switch {
	case err == nil:
		s.ok++
		s.total += d
		if s.min == 0 || d < s.min {
			s.min = d
		}
		if d > s.max {
			s.max = d
		}
	case isPoolExhausted(err):
		s.busy++
	default:
		s.failed++
	}
}

func isPoolExhausted(err error) bool {
	var apiErr api.Error
	return errors.As(err, &apiErr) && apiErr.Status == "503"
}

func getLoadCmd(ctx context.Context, logger *logrus.Logger) *cobra.Command {
	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Run a load test against a running server",
		Long: `Run a load test against a running server.

Spawns a number of workers that check sessions in and out through the REST
API as fast as the rate limit allows, then prints a summary of the outcomes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workers, err := cmd.Flags().GetInt64("workers")
			if err != nil {
				return err
			}
			requests, err := cmd.Flags().GetInt64("requests")
			if err != nil {
				return err
			}
			rps, err := cmd.Flags().GetFloat64("rps")
			if err != nil {
				return err
			}
			hold, err := cmd.Flags().GetDuration("hold")
			if err != nil {
				return err
			}

			c, err := client.New(address, client.WithLogger(logger.WithField("component", "client")))
			if err != nil {
				return err
			}
			if err := c.Ping(ctx); err != nil {
				return fmt.Errorf("could not reach the server at %s: %w", address, err)
			}

			limit := rate.Inf
			if rps > 0 {
				limit = rate.Limit(rps)
			}
			limiter := rate.NewLimiter(limit, 1)

			logger.WithFields(logrus.Fields{
				"workers": workers, "requests": requests, "address": address,
			}).Info("Starting load run")

			var seq, completed atomic.Int64
			summary := &loadSummary{}
			started := time.Now()

			progressDone := make(chan struct{})
			if !quiet {
				go func() {
					ticker := time.NewTicker(500 * time.Millisecond)
					defer ticker.Stop()
					for {
						select {
						case <-progressDone:
							return
						case <-ticker.C:
							fprintf(stdout, "\r  completed %d/%d requests", completed.Load(), requests)
						}
					}
				}()
			}

			g, gctx := errgroup.WithContext(ctx)
			for i := int64(0); i < workers; i++ {
				g.Go(func() error {
					for seq.Add(1) <= requests {
						if err := limiter.Wait(gctx); err != nil {
							return err
						}
						start := time.Now()
						_, err := c.Work(gctx, hold)
						summary.record(time.Since(start), err)
						completed.Add(1)
					}
					return nil
				})
			}

			werr := g.Wait()
			close(progressDone)
			if !quiet {
				fprintf(stdout, "\r")
			}
			if werr != nil && !errors.Is(werr, context.Canceled) {
				return werr
			}

			printLoadSummary(summary, completed.Load(), time.Since(started))
			return nil
		},
	}
	loadCmd.Flags().SortFlags = false
	loadCmd.Flags().AddFlagSet(loadCmdFlagSet())
	return loadCmd
}

func loadCmdFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.Int64P("workers", "w", 10, "number of concurrent workers")
	flags.Int64P("requests", "r", 100, "total number of requests among all workers")
	flags.Float64("rps", 0, "limit requests per second, 0 means no limit")
	flags.Duration("hold", 50*time.Millisecond, "how long the server holds the session for each request")
	return flags
}

func printLoadSummary(s *loadSummary, requests int64, elapsed time.Duration) {
	fprintf(stdout, "\n  requests ....: %d in %s (%.1f req/s)\n",
		requests, elapsed.Truncate(time.Millisecond), float64(requests)/elapsed.Seconds())

	avg := time.Duration(0)
	if s.ok > 0 {
		avg = s.total / time.Duration(s.ok)
	}
	fprintf(stdout, "  %s: %d  min=%s avg=%s max=%s\n",
		color.New(color.FgGreen).Sprint("ok ..........."), s.ok, s.min, avg, s.max)
	fprintf(stdout, "  %s: %d\n", color.New(color.FgYellow).Sprint("busy ........."), s.busy)
	fprintf(stdout, "  %s: %d\n", color.New(color.FgRed).Sprint("errors ......."), s.failed)
}
