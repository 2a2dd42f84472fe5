package main

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mrpolar777/Consulta-API/internal/database"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored report rows",
	Long:  `Displays report rows stored in the local database, optionally for a single date.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Only show rows for this date (DD/MM/YYYY)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var rows []database.StoredRow
	if listDate != "" {
		date, err := parseReportDate(listDate)
		if err != nil {
			return err
		}
		rows, err = db.ListRows(date)
		if err != nil {
			return fmt.Errorf("listing rows: %w", err)
		}
	} else {
		rows, err = db.ListAll()
		if err != nil {
			return fmt.Errorf("listing rows: %w", err)
		}
	}

	if len(rows) == 0 {
		fmt.Println("No stored rows found")
		return nil
	}

	table := uitable.New()
	table.MaxColWidth = 30

	table.AddRow("DATE", "VEHICLE", "KM", "FUEL (L)", "COST", "TIME", "IGNITION", "PUBLISHED")
	var totalKM, totalFuel, totalCost float64
	for _, row := range rows {
		published := ""
		if row.Published {
			published = "yes"
		}
		table.AddRow(
			row.ReportDate.Format("02/01/2006"),
			row.VehicleName,
			fmt.Sprintf("%.1f", row.Distance),
			fmt.Sprintf("%.2f", row.FuelLiters),
			fmt.Sprintf("%.2f", row.Cost),
			row.ServerTime,
			row.Ignition,
			published,
		)
		totalKM += row.Distance
		totalFuel += row.FuelLiters
		totalCost += row.Cost
	}
	fmt.Println(table)
	fmt.Printf("Total: %.1f km, %.2f L, %.2f (%d rows)\n", totalKM, totalFuel, totalCost, len(rows))

	return nil
}
