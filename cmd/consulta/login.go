package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrpolar777/Consulta-API/internal/tracker"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the tracking API and save the session token",
	Long: `Exchanges the configured credentials for a session token and saves it
to the config file. Credentials can be supplied with flags or kept in
config.yaml under api.username / api.password.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Account username (overrides config)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (overrides config)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if loginUsername != "" {
		cfg.API.Username = loginUsername
	}
	if loginPassword != "" {
		cfg.API.Password = loginPassword
	}

	if cfg.API.Username == "" || cfg.API.Password == "" {
		return fmt.Errorf("no credentials configured. Add api.username/api.password to %s or use --username/--password", getConfigPath())
	}

	client := tracker.NewWithCredentials(cfg.GetBaseURL(), cfg.GetTimeout(), cfg.API.Username, cfg.API.Password)

	token, err := client.Login(context.Background())
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.API.Token = token
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("✓ Login successful, token saved")
	return nil
}
