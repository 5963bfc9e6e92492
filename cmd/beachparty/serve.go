package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/beachparty/agent"
	"github.com/hupe1980/beachparty/internal/app"
)

var serveCmd = &cobra.Command{
	Use:       "serve <agent>",
	Short:     "Serve one agent",
	Long:      "Serve one agent (" + strings.Join(agent.Names(), ", ") + ") until interrupted.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: agent.Names(),
	RunE:      runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := app.Build(ctx, cfg, args[0], func(o *app.Options) { o.Logger = logger })
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s agent listening on %s\n", srv.Name, srv.URL)

	if err := srv.Run(ctx); err != nil && err != context.Canceled {
		return fmt.Errorf("serve %s: %w", srv.Name, err)
	}
	return nil
}

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the available agents and their addresses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range agent.Names() {
			p, _ := agent.Lookup(name)
			ac := cfg.Agents[name]
			fmt.Fprintf(out, "%-8s %-24s %-8s %s\n", name, cfg.URL(name), ac.Model.Provider, p.Description)
		}
		return nil
	},
}
