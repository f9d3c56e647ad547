package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lexandro/resourcewatch/metrics"
	"github.com/lexandro/resourcewatch/server"
	"github.com/lexandro/resourcewatch/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP tools over stdio (the default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	p, err := openProject(settings, logger)
	if err != nil {
		return err
	}
	defer p.close()

	feed := tools.NewChangeFeed(tools.DefaultFeedCapacity)
	p.hub.Subscribe(feed.Record)

	if err := p.startMonitor(); err != nil {
		logger.Warn("failed to start change monitor, continuing without live updates", "error", err)
	}

	mcpServer := server.Setup(server.Handlers{
		Find:      &tools.FindHandler{Engine: p.engine, Logger: logger},
		Resources: &tools.ResourcesHandler{Registry: p.resources, Logger: logger},
		Changes:   &tools.ChangesHandler{Feed: feed, Logger: logger},
		Status: &tools.StatusHandler{
			Registry:  p.resources,
			Monitor:   p.monitor,
			Feed:      feed,
			StartTime: startTime,
			Logger:    logger,
		},
		Rescan: &tools.RescanHandler{DoRescan: p.resync.Rescan, Logger: logger},
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The client closing stdin ends the session
		defer cancel()
		logger.Info("MCP server starting on stdio", "root", p.rootDir, "version", server.Version)
		return mcpServer.Run(gctx, &mcp.StdioTransport{})
	})
	g.Go(func() error {
		return p.resync.Run(gctx, settings.RescanInterval)
	})
	if settings.Metrics.Addr != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, settings.Metrics.Addr, p.gatherer, logger)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped with error", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
