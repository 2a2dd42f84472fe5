package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyDate string

var historyCmd = &cobra.Command{
	Use:   "history [vehicle-id]",
	Short: "Dump raw tracking history for one vehicle",
	Long: `Fetches the tracking records for a single vehicle and date and prints
them as JSON. Useful for checking what the upstream actually returns before
blaming the report math.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDate, "date", "", "Date as DD/MM/YYYY (default: today)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	var vehicleID int64
	if _, err := fmt.Sscanf(args[0], "%d", &vehicleID); err != nil {
		return fmt.Errorf("invalid vehicle id: %s", args[0])
	}

	date, err := parseReportDate(historyDate)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
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

	records, err := client.FetchHistory(ctx, vehicleID, date)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No records found")
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	fmt.Printf("%d record(s) for vehicle %d on %s\n", len(records), vehicleID, date.Format("02/01/2006"))
	return nil
}
