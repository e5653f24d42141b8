package db

import (
	"fmt"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return ensureIndexes(db)
}

// ensureIndexes adds the lookup indexes struct tags cannot express.
func ensureIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_event_wedding_position ON event (wedding_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_rsvp_question_wedding_position ON rsvp_question (wedding_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_invitation_wedding_status ON invitation (wedding_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_household_wedding_name ON household (wedding_id, name)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}
