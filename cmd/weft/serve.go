package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-go/weft/pkg/live"
	"github.com/vango-go/weft/pkg/publish"
	"github.com/vango-go/weft/pkg/weft"
)

func serveCmd() *cobra.Command {
	var (
		addr        string
		title       string
		snapshotDir string
		metrics     bool
		interval    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo page with live refresh",
		Long: `Serve a demo page rendered through the engine.

The page re-renders on an interval and connected browsers refresh
over WebSocket. With --snapshot-dir, every refresh also writes the
rendered document to disk.

Examples:
  weft serve
  weft serve --addr=:9000 --interval=1s
  weft serve --snapshot-dir=./out --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, title, snapshotDir, metrics, interval)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8173", "Address to listen on")
	cmd.Flags().StringVarP(&title, "title", "t", "weft demo", "Page title")
	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "Publish rendered snapshots to this directory")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics on /metrics")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Re-render interval")

	return cmd
}

func runServe(addr, title, snapshotDir string, metrics bool, interval time.Duration) error {
	cfg := live.Config{
		Addr:    addr,
		Title:   title,
		Metrics: metrics,
	}

	if snapshotDir != "" {
		store, err := publish.NewDirStore(snapshotDir)
		if err != nil {
			return err
		}
		cfg.Store = store
	}

	if metrics {
		weft.EnableMetrics()
	}

	server, err := live.New(demoView(), cfg)
	if err != nil {
		return err
	}

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	success("Listening on %s", addr)
	info("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
	}()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				server.Refresh(ctx)
			}
		}
	}()

	return server.Start(ctx)
}

// demoView builds a small page that exercises text, attribute, list,
// and property-bag holes. Its state advances on every render pass.
func demoView() live.View {
	shell := weft.Split(
		`<main class="`, `"><h1>`, `</h1><p>Pass `, `</p><ul>`, `</ul><footer `, `></footer></main>`,
	)
	item := weft.Split("<li>", ": ", "</li>")

	pass := 0
	return func() any {
		pass++
		entries := []any{
			weft.Keyed("time", item.Bind("time", time.Now().Format(time.TimeOnly))),
			weft.Keyed("pass", item.Bind("pass", pass)),
		}
		if pass%2 == 0 {
			entries = append(entries, weft.Keyed("even", item.Bind("even", true)))
		}
		return shell.Bind(
			"demo",
			"weft live demo",
			pass,
			entries,
			map[string]any{"data-pass": pass},
		)
	}
}
