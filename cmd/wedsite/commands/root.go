package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/wedsite-backend/internal/app"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "wedsite",
	Short: "Wedding website backend",
	Long: `wedsite serves the couple dashboard API and the public wedding sites,
and ships maintenance commands for migrations and guest list imports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

func SetVersionInfo(v, c string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", v, c)
}

func init() {
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newImportCmd())
}

// bootstrap loads the environment config and a logger in the configured mode.
func bootstrap() (app.Config, *logger.Logger, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return app.Config{}, nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return app.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
