package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrpolar777/Consulta-API/internal/config"
	"github.com/mrpolar777/Consulta-API/internal/database"
	"github.com/mrpolar777/Consulta-API/internal/logging"
	"github.com/mrpolar777/Consulta-API/internal/tracker"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "consulta",
	Short: "Generate fuel consumption reports from vehicle tracking data",
	Long: `Consulta-API is a CLI tool that queries the Rastrosystem vehicle-tracking
API for per-vehicle location and ignition history, derives estimated fuel
consumption and cost per record, and renders the result as a table with CSV
export. Generated rows are kept in a local SQLite database.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// newLogger builds the structured logger used by the client and builder
func newLogger() *zap.Logger {
	log, err := logging.NewLogger()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// newClient builds an API client from config, installing any saved token
func newClient(cfg *config.Config) *tracker.Client {
	client := tracker.NewWithCredentials(cfg.GetBaseURL(), cfg.GetTimeout(), cfg.API.Username, cfg.API.Password)
	if cfg.API.Token != "" {
		client.SetToken(cfg.API.Token)
	}
	return client
}

// parseReportDate parses a date flag in the upstream DD/MM/YYYY format,
// also accepting YYYY-MM-DD. Empty means today.
func parseReportDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use DD/MM/YYYY or YYYY-MM-DD)", dateStr)
}
