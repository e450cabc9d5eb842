package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) vehiclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Manage the vehicle fleet",
	}
	cmd.AddCommand(a.vehiclesListCmd())
	cmd.AddCommand(a.vehiclesAddCmd())
	return cmd
}

func (a *App) vehiclesListCmd() *cobra.Command {
	var all bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vehicles",
		Long: `List the vehicles of the fleet.

Inactive vehicles are hidden unless --all is given.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureService(); err != nil {
				return err
			}

			vehicles, err := a.svc.ListVehicles(context.Background(), all)
			if err != nil {
				return fmt.Errorf("listing vehicles: %w", err)
			}
			if len(vehicles) == 0 {
				fmt.Println("No vehicles registered. Add one with 'fleetboard vehicles add'.")
				return nil
			}

			fmt.Printf("%s\n", formatHeader(fmt.Sprintf("Fleet (%d vehicles)", len(vehicles))))
			for _, v := range vehicles {
				marker := " "
				if !v.Active {
					marker = formatMuted("inactive")
				}
				fmt.Printf("  #%-4d %-12s %-20s %s\n", v.ID, v.Registration, v.Name, marker)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive vehicles")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) vehiclesAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add [registration]",
		Short: "Register a new vehicle",
		Example: `  fleetboard vehicles add 1234-BCD
  fleetboard vehicles add 5678-FGH --name "Blue Volvo"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}

			v, err := a.svc.CreateVehicle(context.Background(), args[0], name)
			if err != nil {
				return fmt.Errorf("creating vehicle: %w", err)
			}

			fmt.Printf("Created vehicle #%d: %s\n", v.ID, v.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Descriptive name (shown next to the registration)")
	return cmd
}
