package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/homesense/homesense/internal/mcp"
	"github.com/homesense/homesense/internal/pathutil"
	"github.com/homesense/homesense/internal/server"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Serve homesense tools to MCP clients over stdio.

Tools: homesense_hint, homesense_check, homesense_achievements,
homesense_reset, homesense_protocols, homesense_graph.

Scenario files are read from the working directory and
~/.homesense/scenarios only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}

			wd, err := os.Getwd()
			if err != nil {
				a.Close()
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			dirs, err := pathutil.ScenarioDirs(wd)
			if err != nil {
				a.Close()
				return err
			}

			srv, err := mcp.NewServer(cmd.Context(), &mcp.Config{
				Name:         "homesense",
				Version:      version,
				Store:        a.kv,
				Seed:         a.cfg.Hints.Seed,
				ScenarioDirs: dirs,
				Logger:       a.logger,
				Events:       a.events,
			})
			if err != nil {
				a.Close()
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			defer a.events.Close()

			a.logger.Info("mcp server starting", "scenario_dirs", dirs)
			return srv.Run(cmd.Context())
		},
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live hint feed for the editor",
		Long: `Serve the websocket feed the editor connects to.

The editor sends graph snapshots as JSON text frames to /ws and receives
{hint, unlocked, coverage, progress} after every snapshot and on every
tick. GET /api/achievements and GET /api/protocols serve JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}
			tick := a.cfg.Server.TickInterval
			if cmd.Flags().Changed("tick") {
				tick, _ = cmd.Flags().GetDuration("tick")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			sigChan := make(chan os.Signal, 1)
			notifySignals(sigChan)
			go func() {
				select {
				case <-sigChan:
					cancel()
				case <-ctx.Done():
				}
			}()

			feed := server.New(a.catalog, a.tracker, a.engine, server.Config{
				TickInterval: tick,
				Logger:       a.logger,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Live feed running at ws://%s/ws\n", addr)
			return feed.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from config)")
	cmd.Flags().Duration("tick", 0, "Hint push interval (default from config)")
	return cmd
}
