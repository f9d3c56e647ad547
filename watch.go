package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexandro/resourcewatch/monitor"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print resource change notifications until interrupted",
	Long: `Watch the project root and print one line per change notification:

  15:04:05.000  created   docs/new.md
  15:04:05.000  renamed   src/old.py -> src/new.py
  15:04:05.000  resources_changed

Press Ctrl+C to stop...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(settings, logger)
		if err != nil {
			return err
		}
		defer p.close()

		p.hub.Subscribe(eventPrinter(cmd.OutOrStdout(), time.Now))
		if err := p.startMonitor(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("watching", "root", p.rootDir, "files", p.resources.FileCount())
		return p.resync.Run(ctx, settings.RescanInterval)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// eventPrinter returns a monitor event handler that writes one line per event.
func eventPrinter(out io.Writer, now func() time.Time) func(monitor.Event) {
	var mu sync.Mutex
	return func(event monitor.Event) {
		mu.Lock()
		defer mu.Unlock()

		stamp := now().Format("15:04:05.000")
		switch event.Kind {
		case monitor.Renamed:
			fmt.Fprintf(out, "%s  %-9s %s -> %s\n", stamp, event.Kind, event.OldKey, event.Key)
		case monitor.ResourcesChanged:
			fmt.Fprintf(out, "%s  %s\n", stamp, event.Kind)
		default:
			fmt.Fprintf(out, "%s  %-9s %s\n", stamp, event.Kind, event.Key)
		}
	}
}
