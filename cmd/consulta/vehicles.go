package main

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var vehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "List vehicles visible to the account",
	Long:  `Queries the tracking API for the devices registered to the configured user.`,
	RunE:  runVehicles,
}

func init() {
	rootCmd.AddCommand(vehiclesCmd)
}

func runVehicles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.API.UserID == 0 {
		return fmt.Errorf("no user id configured. Set api.user_id in %s", getConfigPath())
	}

	client := newClient(cfg)
	ctx := context.Background()

	if client.Token() == "" {
		if cfg.API.Username == "" || cfg.API.Password == "" {
			return fmt.Errorf("not logged in. Run 'consulta login' or add credentials to %s", getConfigPath())
		}
		if err := loginAndSave(ctx, cfg, client); err != nil {
			return err
		}
	}

	vehicles, err := client.ListVehicles(ctx, cfg.API.UserID)
	if err != nil {
		return fmt.Errorf("listing vehicles: %w", err)
	}

	if len(vehicles) == 0 {
		fmt.Println("No vehicles found")
		return nil
	}

	table := uitable.New()
	table.AddRow("VEHICLE ID")
	for _, v := range vehicles {
		table.AddRow(fmt.Sprintf("%d", v.ID))
	}
	fmt.Println(table)
	fmt.Printf("%d vehicle(s)\n", len(vehicles))

	return nil
}
