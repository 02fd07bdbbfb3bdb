package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/stream"
)

// simStep is the fixed step used to fast-forward headless runs.
const simStep = time.Second / 60

// simulate advances mgr by d of simulated time on a virtual clock and
// returns the clock's final reading.
func simulate(mgr *state.Manager, start time.Time, d time.Duration) time.Time {
	now := start
	mgr.Tick(now)
	for elapsed := time.Duration(0); elapsed < d; {
		step := min(simStep, d-elapsed)
		elapsed += step
		now = now.Add(step)
		mgr.Tick(now)
	}
	return now
}

func summaryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a text summary of the system",
		RunE: func(cmd *cobra.Command, args []string) error {
			after, _ := cmd.Flags().GetDuration("after")
			watch, _ := cmd.Flags().GetDuration("watch")

			mgr, _, err := a.loadState()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			now := simulate(mgr, time.Now(), after)
			stream.WriteSummaryTable(out, mgr.Snapshot(), now)
			if watch <= 0 {
				return nil
			}

			// Watch mode: advance the virtual clock by one interval per print.
			isTTY := term.IsTerminal(int(os.Stdout.Fd()))
			ctx, cancel := signalContext()
			defer cancel()

			ticker := time.NewTicker(watch)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case t := <-ticker.C:
					now = now.Add(watch)
					mgr.Tick(now)
					if isTTY {
						fmt.Fprint(out, "\033[H\033[2J")
					} else {
						fmt.Fprintln(out)
					}
					stream.WriteSummaryTable(out, mgr.Snapshot(), t)
				}
			}
		},
	}
	cmd.Flags().Duration("after", 0, "Simulate this long before printing (e.g. 30s)")
	cmd.Flags().Duration("watch", 0, "Reprint at this interval until interrupted (e.g. 1s)")
	return cmd
}

func snapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export a JSON frame of the system",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			after, _ := cmd.Flags().GetDuration("after")
			belt, _ := cmd.Flags().GetBool("belt")

			mgr, _, err := a.loadState()
			if err != nil {
				return err
			}
			now := simulate(mgr, time.Now(), after)
			frame := stream.NewFrame(mgr.Snapshot(), now)
			if !belt {
				frame = frame.WithoutBelt()
			}

			return writeTo(cmd.OutOrStdout(), output, frame.WriteJSON)
		},
	}
	cmd.Flags().StringP("output", "o", "-", "Output file (use - for stdout)")
	cmd.Flags().Duration("after", 0, "Simulate this long before exporting (e.g. 30s)")
	cmd.Flags().Bool("belt", false, "Include asteroid belt members")
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream frames over websockets and expose Prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := stream.DefaultConfig()
			cfg.Addr, _ = cmd.Flags().GetString("addr")
			cfg.MaxFPS, _ = cmd.Flags().GetFloat64("fps")
			cfg.TickInterval, _ = cmd.Flags().GetDuration("tick")
			cfg.IncludeBelt, _ = cmd.Flags().GetBool("belt")

			mgr, _, err := a.loadState()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			srv := stream.NewServer(mgr, cfg, a.logger.Named("stream"))
			registerRuntimeCollectors(srv.Metrics().Registry())
			return srv.Run(ctx)
		},
	}
	def := stream.DefaultConfig()
	cmd.Flags().String("addr", def.Addr, "Listen address")
	cmd.Flags().Float64("fps", def.MaxFPS, "Maximum frames per second per client")
	cmd.Flags().Duration("tick", def.TickInterval, "Simulation tick interval")
	cmd.Flags().Bool("belt", def.IncludeBelt, "Include asteroid belt members in frames")
	return cmd
}

// registerRuntimeCollectors adds Go runtime and process metrics to reg.
func registerRuntimeCollectors(reg *prometheus.Registry) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective catalog config as YAML",
		Long: `Print the catalog config after defaults, the config file and ORRERY_*
environment overrides have been applied. The output can be edited and
passed back with --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			cfg, err := catalog.Load(a.v)
			if err != nil {
				return err
			}
			return writeTo(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return catalog.WriteYAML(w, cfg)
			})
		},
	}
	cmd.Flags().StringP("output", "o", "-", "Output file (use - for stdout)")
	return cmd
}

// writeTo runs write against stdout when path is "-", otherwise against a
// newly created file at path.
func writeTo(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "-" || path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
