package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lexandro/resourcewatch/config"
	"github.com/lexandro/resourcewatch/ignore"
	"github.com/lexandro/resourcewatch/messaging"
	"github.com/lexandro/resourcewatch/metrics"
	"github.com/lexandro/resourcewatch/monitor"
	"github.com/lexandro/resourcewatch/resource"
	"github.com/lexandro/resourcewatch/search"
)

// project wires the components that serve one project root.
type project struct {
	rootDir   string
	logger    *slog.Logger
	gatherer  *prometheus.Registry
	metrics   *metrics.Metrics
	matcher   *ignore.Matcher
	resources *resource.Registry
	hub       *messaging.Hub[monitor.Event]
	monitor   *monitor.Monitor
	engine    *search.Engine
	resync    *resyncer
}

// openProject resolves the root, performs the initial scan and builds the
// search engine. The change monitor is not started.
func openProject(cfg *config.Config, logger *slog.Logger) (*project, error) {
	rootDir := cfg.Root
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		rootDir = wd
	}
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", cfg.Root, err)
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("checking root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", monitor.ErrNotDirectory, rootDir)
	}

	gatherer := prometheus.NewRegistry()
	gatherer.MustRegister(collectors.NewGoCollector())
	m := metrics.New(gatherer)

	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:        rootDir,
		MetadataFolder: cfg.MetadataFolder,
		UseGitignore:   cfg.Gitignore,
		CustomPatterns: cfg.Excludes,
	})

	start := time.Now()
	resources := resource.NewRegistry(rootDir, matcher, logger)
	scan := resources.Scan()
	logger.Info("initial scan complete", "root", rootDir, "files", scan.Total, "duration", time.Since(start))

	hub := messaging.NewHub[monitor.Event]()

	return &project{
		rootDir:   rootDir,
		logger:    logger,
		gatherer:  gatherer,
		metrics:   m,
		matcher:   matcher,
		resources: resources,
		hub:       hub,
		monitor: monitor.New(monitor.Options{
			Publisher: hub,
			Filter:    matcher,
			Debounce:  cfg.Debounce,
			Metrics:   m,
			Logger:    logger,
		}),
		engine: search.NewEngine(resources, search.Options{
			MaxResults:  cfg.Search.MaxResults,
			MaxFileSize: cfg.Search.MaxFileSize,
			Metrics:     m,
			Logger:      logger,
		}),
		resync: newResyncer(resources, matcher, logger),
	}, nil
}

// startMonitor begins watching the root. Resource-set changes queue a rescan.
func (p *project) startMonitor() error {
	p.hub.Subscribe(p.resync.Notify)
	return p.monitor.Initialize(p.rootDir)
}

func (p *project) close() {
	p.monitor.Shutdown()
}
