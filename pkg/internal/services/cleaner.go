package services

import (
	"time"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DoAutoDatabaseCleanup purges read messages older than messages.retention.
func DoAutoDatabaseCleanup() {
	retention := viper.GetDuration("messages.retention")
	if retention <= 0 {
		return
	}

	deadline := time.Now().UTC().Add(-retention)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	tx := database.C.
		Where("is_read = ? AND read_at < ?", true, deadline).
		Delete(&models.Message{})
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when running auto database cleanup...")
		return
	}

	log.Debug().Int64("affected", tx.RowsAffected).Msg("Cleaned up entire database.")
}
