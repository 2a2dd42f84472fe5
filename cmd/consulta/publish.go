package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrpolar777/Consulta-API/internal/database"
	"github.com/mrpolar777/Consulta-API/internal/publisher"
)

var (
	publishAll   bool
	publishLimit int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish stored report rows to MQTT",
	Long: `Reads stored report rows from the database and publishes them to the
configured MQTT broker, one retained message per row, so dashboards can
subscribe per vehicle. Rows already published are skipped unless --all is set.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all rows (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of rows to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}

	pub, err := publisher.New(cfg.MQTT, cfg.GetTopicPrefix())
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var rows []database.StoredRow
	if publishAll {
		rows, err = db.ListAll()
	} else {
		rows, err = db.ListUnpublished()
	}
	if err != nil {
		return fmt.Errorf("listing rows: %w", err)
	}

	if len(rows) == 0 {
		if publishAll {
			fmt.Println("No stored rows found")
		} else {
			fmt.Println("No unpublished rows found")
		}
		return nil
	}

	if publishLimit > 0 && len(rows) > publishLimit {
		rows = rows[:publishLimit]
		fmt.Printf("Limiting to %d rows (--limit flag)\n", publishLimit)
	}

	fmt.Printf("Publishing %d rows...\n", len(rows))
	published := 0
	for i, row := range rows {
		fmt.Printf("[%d/%d] Publishing %s %s... ", i+1, len(rows), row.VehicleName, row.ServerTime)
		if err := pub.Publish(row); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		if err := db.MarkPublished(row.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nTotal rows published: %d/%d\n", published, len(rows))
	return nil
}
