package commands

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/wedsite-backend/internal/data/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			pg, err := db.NewPostgresService(cfg.DB, log)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := db.AutoMigrateAll(pg.DB()); err != nil {
				return err
			}
			log.Info("Migrations applied", "driver", cfg.DB.Driver)
			return nil
		},
	}
}
