package ui

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgallego/fleetboard/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or create the configuration file",
	}
	cmd.AddCommand(a.configShowCmd())
	cmd.AddCommand(a.configInitCmd())
	return cmd
}

func (a *App) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
and FLEETBOARD_* environment variables.`,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("Config file: %s\n\n", config.DefaultConfigPath())
			printConfig(a.config)
		},
	}
}

func (a *App) configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a config file with default values",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.DefaultConfigPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}

			cfg := config.Default()
			if err := cfg.SaveTo(path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Printf("Created %s\n", path)
			return nil
		},
	}
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[storage]")
	fmt.Printf("  mode            = %s\n", cfg.Storage.Mode)
	if cfg.Storage.Mode == config.ModeLocal {
		fmt.Printf("  db_path         = %s\n", cfg.Storage.DBPath)
	}
	if cfg.Storage.Mode == config.ModeRemote || cfg.API.BaseURL != "" {
		fmt.Println("\n[api]")
		fmt.Printf("  base_url        = %s\n", cfg.API.BaseURL)
		fmt.Printf("  timeout_seconds = %d\n", cfg.API.TimeoutSeconds)
		if cfg.API.Token != "" {
			fmt.Printf("  token           = %s\n", "(set)")
		}
	}
	fmt.Println("\n[ui]")
	fmt.Printf("  theme           = %s\n", cfg.UI.Theme)
	fmt.Printf("  cell_width      = %d\n", cfg.UI.CellWidth)
	fmt.Printf("  cell_height     = %d\n", cfg.UI.CellHeight)
	fmt.Printf("  hold_delay_ms   = %d\n", cfg.UI.HoldDelayMS)
	fmt.Printf("  confirm_moves   = %t\n", cfg.UI.ConfirmMoves)
	fmt.Println("\n[logging]")
	fmt.Printf("  path            = %s\n", cfg.Logging.Path)
	fmt.Printf("  level           = %s\n", cfg.Logging.Level)
}
