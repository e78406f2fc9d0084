package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"material-kb/internal/app"
	"material-kb/pkg/config"
	"material-kb/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg         *config.Config
	application *app.App
	appLogger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kbctl",
	Short: "Operate the material knowledge base",
	Long: `kbctl runs the supplier document pipeline from the command line:
ingest documents, review the approval queue and search approved materials.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := logger.Init(cfg.Logger.Level); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		appLogger = logger.Get()

		if cmd.Name() == migrateCmd.Name() {
			return nil
		}

		application, err = app.New(context.Background(), cfg, appLogger)
		if err != nil {
			return fmt.Errorf("init application: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			application.Close()
		}
		logger.Sync()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(recommitCmd)
	rootCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
