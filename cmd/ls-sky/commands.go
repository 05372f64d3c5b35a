package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/body"
	"github.com/litescript/ls-sky/internal/server"
	"github.com/litescript/ls-sky/internal/sky"
	"github.com/litescript/ls-sky/internal/ui"
)

const (
	defaultStars    = 10
	shutdownTimeout = 5 * time.Second
)

func (a *app) tuiCmd() *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive sky view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context(), logFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of discarding them")
	return cmd
}

func (a *app) runTUI(ctx context.Context, logFile string) error {
	// The alternate screen owns the terminal.
	a.logger.SetOutput(io.Discard)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		a.logger.SetOutput(f)
	}

	mgr, err := a.newManager(nil)
	if err != nil {
		return err
	}

	model := ui.New(mgr, a.cfg.UI.Accelerator, a.logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func (a *app) positionsCmd() *cobra.Command {
	var stars int
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Print the solar system bodies and the brightest visible stars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if stars < 0 {
				return fmt.Errorf("--stars must not be negative, got %d", stars)
			}
			return a.runPositions(cmd.OutOrStdout(), stars)
		},
	}
	cmd.Flags().IntVarP(&stars, "stars", "n", defaultStars, "number of stars to list")
	return cmd
}

func (a *app) runPositions(w io.Writer, stars int) error {
	s, err := a.snapshot()
	if err != nil {
		return err
	}
	writePositions(w, s, a.cfg.Observer.Name, stars)
	return nil
}

func (a *app) closestCmd() *cobra.Command {
	var x, y, maxDistance float64
	cmd := &cobra.Command{
		Use:   "closest",
		Short: "Name the object closest to a point of the projection plane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.snapshot()
			if err != nil {
				return err
			}
			p := astro.Cartesian{X: x, Y: y}
			obj, ok := s.ObjectClosestTo(p, maxDistance)
			if !ok {
				return fmt.Errorf("no object within %g of %v", maxDistance, p)
			}
			writeObject(cmd.OutOrStdout(), s, obj)
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&x, "x", 0, "plane x coordinate")
	f.Float64Var(&y, "y", 0, "plane y coordinate")
	f.Float64Var(&maxDistance, "max", 0.1, "maximum plane distance")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sky snapshots and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			return a.runServer(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (a *app) runServer(ctx context.Context, addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := server.NewMetrics(reg)

	mgr, err := a.newManager(metrics)
	if err != nil {
		return err
	}

	logger := a.logger.WithPrefix("http")
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(server.New(mgr, logger, metrics), reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// snapshot computes the sky for the configured parameters.
func (a *app) snapshot() (*sky.ObservedSky, error) {
	mgr, err := a.newManager(nil)
	if err != nil {
		return nil, err
	}
	return mgr.Snapshot()
}

func writePositions(w io.Writer, s *sky.ObservedSky, place string, stars int) {
	if place == "" {
		place = s.Where().String()
	}
	fmt.Fprintf(w, "Sky at %s from %s\n\n", s.When().Format("2006-01-02 15:04:05 MST"), place)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Object", "Kind", "Equatorial", "Horizontal", "Mag")

	rows := s.SolarSystem()
	for _, i := range s.BrightestStars(stars) {
		rows = append(rows, s.Catalogue().Star(i))
	}
	for _, o := range rows {
		t.Row(o.Info(), o.Kind().String(),
			o.Equatorial().Sexagesimal(0), s.Horizontal(o).Sexagesimal(0),
			fmt.Sprintf("%.2f", o.Magnitude()))
	}
	fmt.Fprintln(w, t.Render())
}

func writeObject(w io.Writer, s *sky.ObservedSky, o body.Object) {
	hor := s.Horizontal(o)
	fmt.Fprintf(w, "%s (%s)\n", o.Info(), o.Kind())
	fmt.Fprintf(w, "  %s\n", o.Equatorial().Sexagesimal(1))
	fmt.Fprintf(w, "  %s (%s)\n", hor.Sexagesimal(1), hor.AzOctantName("N", "E", "S", "W"))
	fmt.Fprintf(w, "  Mag %.2f\n", o.Magnitude())
	if star, ok := o.(body.Star); ok {
		fmt.Fprintf(w, "  HIP %d, %d K\n", star.HipparcosID(), star.ColorTemperature())
	}
}
