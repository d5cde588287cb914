package cmd

import (
	"os"

	"github.com/shitamachi/fcm-bridge/config"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/spf13/cobra"
)

var (
	configPath string
	ephemeral  bool
	useYAML    bool
)

var rootCmd = &cobra.Command{
	Use:   "fcm-bridge",
	Short: "Bridges APNs device registration to Firebase Cloud Messaging tokens and topics",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a json or yaml config file")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep tokens in memory only")

	// Allow env override
	if envPath := os.Getenv("FCM_BRIDGE_CONFIG"); envPath != "" {
		configPath = envPath
	}
}

// SetVersion sets the version string shown by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.AppConfig, error) {
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if ephemeral {
		conf.StoreConfig.Driver = config_entries.MemoryStore
	}
	return conf, nil
}
