package main

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lexandro/resourcewatch/ignore"
	"github.com/lexandro/resourcewatch/monitor"
	"github.com/lexandro/resourcewatch/resource"
)

// resyncer rescans the resource registry when the monitor reports that the
// set of resources may have changed. Triggers that arrive while a scan is
// running coalesce into a single follow-up scan.
type resyncer struct {
	registry *resource.Registry
	matcher  *ignore.Matcher
	logger   *slog.Logger
	trigger  chan struct{}
	manual   singleflight.Group
}

func newResyncer(registry *resource.Registry, matcher *ignore.Matcher, logger *slog.Logger) *resyncer {
	return &resyncer{
		registry: registry,
		matcher:  matcher,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Notify is a monitor event handler. It runs on the publishing goroutine, so
// it only queues the rescan.
func (r *resyncer) Notify(event monitor.Event) {
	if event.Kind == monitor.ResourcesChanged {
		r.Trigger()
	}
}

// Trigger queues a rescan unless one is already pending.
func (r *resyncer) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run processes queued rescans until ctx is done. A positive interval adds
// periodic rescans as a safety net for missed watcher events.
func (r *resyncer) Run(ctx context.Context, interval time.Duration) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	r.logger.Info("resync loop started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("resync loop stopped")
			return nil
		case <-r.trigger:
			r.rescan("notification")
		case <-tick:
			r.rescan("periodic")
		}
	}
}

// Rescan reloads ignore rules and rescans immediately. Concurrent callers
// share one scan.
func (r *resyncer) Rescan() (resource.ScanResult, error) {
	v, err, _ := r.manual.Do("rescan", func() (any, error) {
		if r.matcher != nil {
			r.matcher.Reload()
		}
		return r.rescan("manual"), nil
	})
	if err != nil {
		return resource.ScanResult{}, err
	}
	return v.(resource.ScanResult), nil
}

func (r *resyncer) rescan(reason string) resource.ScanResult {
	start := time.Now()
	result := r.registry.Scan()

	if result.Added+result.Removed > 0 {
		r.logger.Info("resources rescanned",
			"reason", reason,
			"added", result.Added,
			"removed", result.Removed,
			"total", result.Total,
			"duration", time.Since(start),
		)
	} else {
		r.logger.Debug("resources rescanned, no changes", "reason", reason, "duration", time.Since(start))
	}
	return result
}
