package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mrpolar777/Consulta-API/internal/config"
	"github.com/mrpolar777/Consulta-API/internal/export"
	"github.com/mrpolar777/Consulta-API/internal/report"
	"github.com/mrpolar777/Consulta-API/internal/tracker"
	"github.com/mrpolar777/Consulta-API/pkg/models"
)

var (
	reportDate    string
	reportPrice   float64
	reportEconomy float64
	reportUserID  int64
	reportCSV     string
	reportNoStore bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the fuel report for a date",
	Long: `Fetches every vehicle's tracking history for the given date, computes
estimated fuel consumption and cost per record, displays the result as a
table and stores the rows in the local SQLite database.

Fuel price and average economy default to the values in config.yaml.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Report date as DD/MM/YYYY (default: today)")
	reportCmd.Flags().Float64Var(&reportPrice, "price", 0, "Fuel price per liter (default: config value)")
	reportCmd.Flags().Float64Var(&reportEconomy, "economy", 0, "Average economy in km per liter (default: config value)")
	reportCmd.Flags().Int64Var(&reportUserID, "user", 0, "Account user id (default: config value)")
	reportCmd.Flags().StringVar(&reportCSV, "csv", "", "Also write the report to this CSV file")
	reportCmd.Flags().BoolVar(&reportNoStore, "no-store", false, "Skip storing rows in the database")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Report started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	date, err := parseReportDate(reportDate)
	if err != nil {
		return err
	}

	price := reportPrice
	if price == 0 {
		price = cfg.GetFuelPrice()
	}
	economy := reportEconomy
	if economy == 0 {
		economy = cfg.GetAvgEconomy()
	}
	userID := reportUserID
	if userID == 0 {
		userID = cfg.API.UserID
	}
	if userID == 0 {
		return fmt.Errorf("no user id configured. Set api.user_id in %s or pass --user", getConfigPath())
	}

	client := newClient(cfg)
	ctx := context.Background()

	// No saved token yet: log in up front when credentials exist.
	if client.Token() == "" {
		if cfg.API.Username == "" || cfg.API.Password == "" {
			return fmt.Errorf("not logged in. Run 'consulta login' or add credentials to %s", getConfigPath())
		}
		fmt.Println("No saved token, performing login...")
		if err := loginAndSave(ctx, cfg, client); err != nil {
			return err
		}
	}

	builder := report.NewBuilder(client, newLogger().Named("report"))
	params := report.Params{UserID: userID, Date: date, FuelPrice: price, AvgEconomy: economy}

	fmt.Printf("Building report for %s...\n", date.Format("02/01/2006"))
	rep, err := builder.Build(ctx, params)

	// An expired saved token surfaces as an AuthError; re-login once and
	// rebuild when credentials are available.
	var authErr *tracker.AuthError
	if errors.As(err, &authErr) && cfg.API.Username != "" && cfg.API.Password != "" {
		fmt.Printf("⚠ Session rejected: %v\n", authErr)
		fmt.Println("Re-logging in and retrying...")
		if err := loginAndSave(ctx, cfg, client); err != nil {
			return err
		}
		rep, err = builder.Build(ctx, params)
	}
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	if len(rep.Rows) == 0 {
		fmt.Println("No data found")
	} else {
		printReport(rep)
	}
	if rep.Skipped > 0 {
		fmt.Printf("⚠ %d vehicle(s) skipped after fetch failures (see log)\n", rep.Skipped)
	}

	if !reportNoStore && len(rep.Rows) > 0 {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		stored, err := db.InsertReport(rep)
		if err != nil {
			return fmt.Errorf("storing report: %w", err)
		}
		fmt.Printf("✓ Stored %d new rows (duplicates automatically skipped)\n", stored)
	}

	if reportCSV != "" {
		if err := writeCSVFile(reportCSV, rep); err != nil {
			return err
		}
		fmt.Printf("✓ CSV written to %s\n", reportCSV)
	}

	return nil
}

// loginAndSave logs in and persists the fresh token to the config file
func loginAndSave(ctx context.Context, cfg *config.Config, client *tracker.Client) error {
	token, err := client.Login(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.API.Token = token
	if err := saveConfig(cfg); err != nil {
		fmt.Printf("Warning: Could not save token: %v\n", err)
	} else {
		fmt.Println("✓ Login successful, token saved")
	}
	return nil
}

// printReport renders the report rows as a table
func printReport(rep models.Report) {
	table := uitable.New()
	table.MaxColWidth = 30

	table.AddRow("VEHICLE", "KM", "FUEL (L)", "COST", "LAT", "LON", "TIME", "IGNITION")
	for _, row := range rep.Rows {
		table.AddRow(
			row.VehicleName,
			fmt.Sprintf("%.1f", row.Distance),
			fmt.Sprintf("%.2f", row.FuelLiters),
			fmt.Sprintf("%.2f", row.Cost),
			fmt.Sprintf("%.5f", row.Latitude),
			fmt.Sprintf("%.5f", row.Longitude),
			row.ServerTime,
			row.Ignition,
		)
	}
	fmt.Println(table)

	var totalKM, totalFuel, totalCost float64
	for _, row := range rep.Rows {
		totalKM += row.Distance
		totalFuel += row.FuelLiters
		totalCost += row.Cost
	}
	fmt.Printf("Total: %.1f km, %.2f L, %.2f (%d records)\n", totalKM, totalFuel, totalCost, len(rep.Rows))
}

// writeCSVFile writes the report to a CSV file
func writeCSVFile(path string, rep models.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}

	if err := export.Write(f, rep); err != nil {
		f.Close()
		return fmt.Errorf("writing CSV: %w", err)
	}
	return f.Close()
}
