package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"consulthub/pkg/utils"
)

var cfg *utils.Config

var rootCmd = &cobra.Command{
	Use:   "consultctl",
	Short: "Inspect catalog content and manage the consulthub store",
	Long:  "Offline tooling for consulthub: query the project and investment catalog from the data directory, create admin accounts and export bookings.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := utils.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		if dataDir != "" {
			cfg.Data.Dir = dataDir
		}
		if storePath != "" {
			cfg.Store.Path = storePath
		}

		if err := utils.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

var (
	dataDir   string
	storePath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "content directory (overrides data.dir)")
	rootCmd.PersistentFlags().StringVar(&storePath, "db", "", "sqlite path (overrides store.path)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
