package ui

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mgallego/fleetboard/internal/api"
	"github.com/mgallego/fleetboard/internal/config"
	"github.com/mgallego/fleetboard/internal/fleet"
	"github.com/mgallego/fleetboard/internal/logging"
	"github.com/mgallego/fleetboard/internal/store"
	"github.com/mgallego/fleetboard/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	svc       fleet.Service
	config    *config.Config
	log       zerolog.Logger
	logCloser io.Closer
	root      *cobra.Command
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, log: zerolog.Nop()}

	a.root = &cobra.Command{
		Use:   "fleetboard",
		Short: "A terminal board for bus fleet scheduling",
		Long: `Fleetboard is a terminal UI for assigning buses to tour bookings.

It shows a month of bookings on a vehicle-by-day board, detects date
overlaps before any assignment is committed, and lets you reassign or
reschedule bookings by dragging them across the board.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			return tui.Run(a.svc, a.config, a.log)
		},
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.vehiclesCmd())
	a.root.AddCommand(a.bookingsCmd())
	a.root.AddCommand(a.demoCmd())

	return a
}

// ensureService lazily opens the log file and the configured backend.
// The root command and every data subcommand need it; version and
// config do not, so they stay usable with a broken backend.
func (a *App) ensureService() error {
	if a.svc != nil {
		return nil
	}

	log, closer, err := logging.Open(a.config.Logging.Path, a.config.Logging.Level)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	a.log = log
	a.logCloser = closer

	switch a.config.Storage.Mode {
	case config.ModeRemote:
		client, err := api.New(a.config.API.BaseURL, a.config.API.Token, a.config.API.Timeout(), logging.Component(log, "api"))
		if err != nil {
			return fmt.Errorf("connecting to backend: %w", err)
		}
		a.svc = client
	case config.ModeLocal:
		st, err := store.Open(a.config.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		a.svc = st
	default:
		return fmt.Errorf("unknown storage mode: %s", a.config.Storage.Mode)
	}

	a.log.Info().Str("mode", a.config.Storage.Mode).Msg("backend ready")
	return nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("fleetboard %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the backend connection and the log file.
func (a *App) Close() error {
	var firstErr error
	if a.svc != nil {
		firstErr = a.svc.Close()
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
