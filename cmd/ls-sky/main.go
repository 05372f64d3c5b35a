// Command ls-sky draws the sky seen by an observer at a given instant, in a
// terminal UI or as plain text, and can serve snapshots over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-sky/internal/catalog"
	"github.com/litescript/ls-sky/internal/config"
	"github.com/litescript/ls-sky/internal/logging"
	"github.com/litescript/ls-sky/internal/state"
	"github.com/litescript/ls-sky/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the global flags and what PersistentPreRunE builds from them.
type app struct {
	configPath string
	logLevel   string
	at         string
	lonDeg     float64
	latDeg     float64

	cfg    config.Config
	logger *logging.Logger
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	root := &cobra.Command{
		Use:          "ls-sky",
		Short:        "Sun, Moon, planets and stars as seen from anywhere on Earth",
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return a.runTUI(cmd.Context(), "")
			}
			return a.runPositions(cmd.OutOrStdout(), defaultStars)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "TOML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.at, "time", "", "observation instant, RFC 3339 (default now)")
	pf.Float64Var(&a.lonDeg, "lon", 0, "observer longitude in degrees, east positive")
	pf.Float64Var(&a.latDeg, "lat", 0, "observer latitude in degrees, north positive")

	root.AddCommand(
		a.tuiCmd(),
		a.positionsCmd(),
		a.closestCmd(),
		a.serveCmd(),
	)
	return root
}

// setup loads the config, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("lon") {
		cfg.Observer.LonDeg = a.lonDeg
		cfg.Observer.Name = ""
	}
	if flags.Changed("lat") {
		cfg.Observer.LatDeg = a.latDeg
		cfg.Observer.Name = ""
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = logging.New(cfg.Level())
	a.logger.SetOutput(a.stderr)
	return nil
}

// instant returns the --time flag, or now.
func (a *app) instant() (time.Time, error) {
	if a.at == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, a.at)
	if err != nil {
		return time.Time{}, fmt.Errorf("--time: %w", err)
	}
	return t.UTC(), nil
}

// params builds the initial viewing parameters from the config and flags.
func (a *app) params() (state.Params, error) {
	when, err := a.instant()
	if err != nil {
		return state.Params{}, err
	}
	where, err := a.cfg.Location()
	if err != nil {
		return state.Params{}, err
	}
	center, err := a.cfg.Center()
	if err != nil {
		return state.Params{}, err
	}
	return state.Params{When: when, Where: where, Center: center, FOVDeg: a.cfg.View.FOVDeg}, nil
}

// newManager loads the catalogue and creates a state manager over it.
func (a *app) newManager(observer state.Observer) (*state.Manager, error) {
	start := time.Now()
	cat, err := catalog.Open(a.cfg.Catalog.HYGPath, a.cfg.Catalog.AsterismsPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Loaded %d stars and %d asterisms in %v",
		cat.Len(), cat.NumAsterisms(), time.Since(start))

	p, err := a.params()
	if err != nil {
		return nil, err
	}
	stateCfg := state.DefaultConfig()
	stateCfg.Observer = observer
	return state.NewManager(cat, p, stateCfg)
}
