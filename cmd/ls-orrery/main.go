// Command ls-orrery is a terminal solar-system orrery with a websocket
// frame stream for external renderers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/ui"
	"github.com/litescript/ls-orrery/internal/version"
)

// app carries what every subcommand needs: the viper instance bound to the
// persistent flags and the logger built from them.
type app struct {
	cfgFile string
	v       *viper.Viper
	logger  *logging.Logger
	closeFn func() error
}

func main() {
	a := &app{}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ls-orrery",
		Short: "Terminal solar-system orrery",
		Long: `ls-orrery animates a stylised solar system in the terminal: eight planets,
their major moons, an asteroid belt and comets on eccentric orbits.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeFn != nil {
				return a.closeFn()
			}
			return nil
		},
		RunE: a.runTUI,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./ls-orrery.yaml or ~/.config/ls-orrery/)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-file", "", "Write logs to this file (the TUI discards logs otherwise)")
	pf.Uint64("seed", 1, "Random seed for belt, comets and stars (0 picks one from the clock)")

	// TUI flags
	rootCmd.Flags().String("quality", "high", "Render quality (low, medium, high, ultra)")
	rootCmd.Flags().Bool("light", false, "Start with the light theme")
	rootCmd.Flags().Bool("no-splash", false, "Skip the loading sequence")

	rootCmd.AddCommand(
		summaryCmd(a),
		snapshotCmd(a),
		serveCmd(a),
		configCmd(a),
		versionCmd(),
	)
	return rootCmd
}

// init builds the viper instance and logger once flags are parsed.
func (a *app) init(cmd *cobra.Command) error {
	a.v = catalog.NewViper(a.cfgFile)

	binds := map[string]string{
		"seed":      "seed",
		"log_level": "log-level",
		"log_file":  "log-file",
	}
	for key, flag := range binds {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	if f := cmd.Flags().Lookup("quality"); f != nil {
		if err := a.v.BindPFlag("quality", f); err != nil {
			return fmt.Errorf("bind flag quality: %w", err)
		}
	}

	level := logging.ParseLevel(a.v.GetString("log_level"))
	switch path := a.v.GetString("log_file"); {
	case path != "":
		logger, closeFn, err := logging.OpenFile(path, level)
		if err != nil {
			return err
		}
		a.logger, a.closeFn = logger, closeFn
	case cmd.Name() == "ls-orrery":
		// The TUI owns the terminal.
		a.logger = logging.Discard()
	default:
		a.logger = logging.New(level)
	}
	return nil
}

// loadState reads the catalog config, builds the system and wraps it in a
// state manager. It returns the seed that was used.
func (a *app) loadState() (*state.Manager, uint64, error) {
	cfg, err := catalog.Load(a.v)
	if err != nil {
		return nil, 0, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("Using config file %s", used)
	}
	if a.logger.Enabled(logging.LevelDebug) {
		var sb strings.Builder
		if err := catalog.WriteYAML(&sb, cfg); err == nil {
			a.logger.Debug("Effective config:\n%s", sb.String())
		}
	}

	sys, err := catalog.Build(cfg)
	if err != nil {
		return nil, 0, err
	}
	a.logger.Info("Built system: %d bodies (seed %d)", sys.Len(), cfg.Seed)
	return state.NewManager(sys, state.DefaultConfig()), cfg.Seed, nil
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	quality, err := scene.ParseQuality(a.v.GetString("quality"))
	if err != nil {
		return err
	}
	light, _ := cmd.Flags().GetBool("light")
	noSplash, _ := cmd.Flags().GetBool("no-splash")

	stateMgr, seed, err := a.loadState()
	if err != nil {
		return err
	}
	starfield := scene.NewStarfield(seed)

	opts := ui.DefaultOptions()
	opts.Quality = quality
	opts.Light = light
	opts.SkipLoading = noSplash

	// Create Bubble Tea program
	p := tea.NewProgram(ui.New(stateMgr, &starfield, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ls-orrery %s\n", version.Version)
		},
	}
}
