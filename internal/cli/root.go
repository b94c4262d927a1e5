// Package cli implements the mnemo CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mnemo-dev/mnemo/internal/config"
	"github.com/mnemo-dev/mnemo/internal/store"
)

// Version is the build version reported by serve and health.
var Version = "0.3.0"

var (
	configPath string
	storePath  string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mnemo",
	Short: "Associative memory for agents",
	Long: "Store short free-text memories with tags, importance, and optional expiry,\n" +
		"then recall the most relevant ones for a query. Single JSON file, atomic writes.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.mnemo/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "Store path (default: $MNEMO_STORE or config)")
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		home, _ := os.UserHomeDir()
		path = home + "/.mnemo/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	} else if env := os.Getenv("MNEMO_STORE"); env != "" {
		cfg.Store.Path = env
	}
	return cfg, nil
}

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Store.Path, store.Options{
		DisableAutosave: !cfg.Store.AutosaveEnabled(),
		ArchivePath:     cfg.Store.Archive,
	})
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
