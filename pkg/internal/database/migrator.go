package database

import (
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Community{},
	&models.CommunityFollow{},
	&models.Post{},
	&models.PostLike{},
	&models.Reply{},
	&models.ReplyLike{},
	&models.Message{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
