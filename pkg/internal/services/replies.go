package services

import (
	"errors"
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetReply(tx *gorm.DB, id uint) (models.Reply, error) {
	var reply models.Reply
	if err := tx.Where("id = ?", id).Preload("Account").First(&reply).Error; err != nil {
		return reply, wrapQueryError(err, "reply")
	}
	return reply, nil
}

// ListPostReplies returns every reply of the post, oldest first, in a single query.
func ListPostReplies(tx *gorm.DB, post uint) ([]models.Reply, error) {
	replies := make([]models.Reply, 0)
	if err := tx.
		Where("post_id = ?", post).
		Preload("Account").
		Order("created_at ASC, id ASC").
		Find(&replies).Error; err != nil {
		return replies, err
	}

	return CompleteReplyMetric(tx.Session(&gorm.Session{NewDB: true}), replies)
}

func GetPostReplyTree(tx *gorm.DB, post uint) ([]*ReplyNode, error) {
	replies, err := ListPostReplies(tx, post)
	if err != nil {
		return nil, err
	}
	return BuildReplyTree(replies), nil
}

func CompleteReplyMetric(tx *gorm.DB, replies []models.Reply) ([]models.Reply, error) {
	if len(replies) == 0 {
		return replies, nil
	}

	idx := lo.Map(replies, func(item models.Reply, _ int) uint {
		return item.ID
	})
	likes, err := CountGroupedBy(tx, &models.ReplyLike{}, "reply_id", idx)
	if err != nil {
		return replies, err
	}

	for i, item := range replies {
		replies[i].Metric = models.ReplyMetric{LikeCount: likes[item.ID]}
	}
	return replies, nil
}

// NewReply attaches a reply to the post. When a parent is given it has to be
// an existing reply of the very same post, which keeps the replies a forest.
func NewReply(user models.Account, post models.Post, item models.Reply) (models.Reply, error) {
	item.Body = strings.TrimSpace(item.Body)
	if len(item.Body) == 0 && len(item.Images) == 0 && item.Video == nil {
		return item, ErrEmptyContent
	}

	if item.ParentID != nil {
		parent, err := GetReply(database.C, *item.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return item, ErrInvalidReplyParent
			}
			return item, err
		}
		if parent.PostID != post.ID {
			return item, ErrInvalidReplyParent
		}
	}

	item.PostID = post.ID
	item.AccountID = user.ID

	if err := database.C.Omit(clause.Associations).Create(&item).Error; err != nil {
		return item, err
	}
	item.Account = user

	log.Debug().Uint("post", post.ID).Uint("reply", item.ID).Msg("Replied to a post.")
	return item, nil
}

// DeleteReply removes the reply and every reply below it.
func DeleteReply(user models.Account, item models.Reply) error {
	if item.AccountID != user.ID {
		return fmt.Errorf("you can only delete your own reply: %w", ErrForbidden)
	}

	replies, err := ListPostReplies(database.C, item.PostID)
	if err != nil {
		return err
	}
	idx := CollectReplySubtree(BuildReplyTree(replies), item.ID)
	if len(idx) == 0 {
		idx = []uint{item.ID}
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_id IN ?", idx).Delete(&models.ReplyLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", idx).Delete(&models.Reply{}).Error
	})
}
