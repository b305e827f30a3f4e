package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikePost inserts the like if absent, the unique (account, post) index makes it idempotent.
func LikePost(user models.Account, post models.Post) (bool, error) {
	like := models.PostLike{AccountID: user.ID, PostID: post.ID}
	tx := database.C.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if tx.Error != nil {
		return false, fmt.Errorf("unable to like post: %v", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func UnlikePost(user models.Account, post models.Post) (bool, error) {
	tx := database.C.
		Where("account_id = ? AND post_id = ?", user.ID, post.ID).
		Delete(&models.PostLike{})
	if tx.Error != nil {
		return false, fmt.Errorf("unable to unlike post: %v", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func LikeReply(user models.Account, reply models.Reply) (bool, error) {
	like := models.ReplyLike{AccountID: user.ID, ReplyID: reply.ID}
	tx := database.C.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if tx.Error != nil {
		return false, fmt.Errorf("unable to like reply: %v", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func UnlikeReply(user models.Account, reply models.Reply) (bool, error) {
	tx := database.C.
		Where("account_id = ? AND reply_id = ?", user.ID, reply.ID).
		Delete(&models.ReplyLike{})
	if tx.Error != nil {
		return false, fmt.Errorf("unable to unlike reply: %v", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func CountPostLikes(tx *gorm.DB, post uint) (int64, error) {
	var count int64
	if err := tx.Model(&models.PostLike{}).
		Where("post_id = ?", post).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("unable to count post likes: %v", err)
	}
	return count, nil
}

func CountReplyLikes(tx *gorm.DB, reply uint) (int64, error) {
	var count int64
	if err := tx.Model(&models.ReplyLike{}).
		Where("reply_id = ?", reply).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("unable to count reply likes: %v", err)
	}
	return count, nil
}

func IsPostLiked(tx *gorm.DB, account uint, post uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.PostLike{}).
		Where("account_id = ? AND post_id = ?", account, post).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func IsReplyLiked(tx *gorm.DB, account uint, reply uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.ReplyLike{}).
		Where("account_id = ? AND reply_id = ?", account, reply).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
