package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/beachparty/agent"
	"github.com/hupe1980/beachparty/config"
	"github.com/hupe1980/beachparty/internal/app"
)

const listenTimeout = 10 * time.Second

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Serve every agent in one process",
	Long:  "Serve the planner, beach and weather agents, then the host that consults them, until interrupted.",
	Args:  cobra.NoArgs,
	RunE:  runAll,
}

// workers are started before the host so it can discover them.
var workers = []string{agent.PlannerName, agent.BeachName, agent.WeatherName}

func runAll(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	start := func(name string) error {
		srv, err := app.Build(gctx, cfg, name, func(o *app.Options) { o.Logger = logger })
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s agent listening on %s\n", srv.Name, srv.URL)
		g.Go(func() error { return srv.Run(gctx) })
		return nil
	}

	for _, name := range workers {
		if err := start(name); err != nil {
			stop()
			return errors.Join(err, g.Wait())
		}
	}

	// The host resolves the workers' cards while it is built.
	if err := waitListening(gctx, cfg, workers); err != nil {
		stop()
		return errors.Join(err, g.Wait())
	}

	if err := start(agent.HostName); err != nil {
		stop()
		return errors.Join(err, g.Wait())
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// waitListening blocks until every named agent accepts TCP connections.
func waitListening(ctx context.Context, cfg *config.Config, names []string) error {
	ctx, cancel := context.WithTimeout(ctx, listenTimeout)
	defer cancel()

	var d net.Dialer
	for _, name := range names {
		for {
			conn, err := d.DialContext(ctx, "tcp", cfg.Addr(name))
			if err == nil {
				conn.Close()
				break
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s agent not listening on %s: %w", name, cfg.Addr(name), ctx.Err())
			case <-time.After(50 * time.Millisecond):
			}
		}
	}
	return nil
}
