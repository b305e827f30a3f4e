package services

import (
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func FilterPostWithCommunityAssigned(tx *gorm.DB) *gorm.DB {
	return tx.Where("community_id IS NOT NULL")
}

func FilterPostWithCommunity(tx *gorm.DB, id uint) *gorm.DB {
	return tx.Where("community_id = ?", id)
}

func FilterPostWithCommunities(tx *gorm.DB, idx []uint) *gorm.DB {
	if len(idx) == 0 {
		return tx.Where("1 = 0")
	}
	return tx.Where("community_id IN ?", idx)
}

func FilterPostWithAuthor(tx *gorm.DB, id uint) *gorm.DB {
	return tx.Where("account_id = ?", id)
}

// FilterPostWithUsername keeps posts whose author name contains the keyword.
// No matching account means no matching post, the subquery takes care of that.
func FilterPostWithUsername(tx *gorm.DB, keyword string) *gorm.DB {
	if len(keyword) == 0 {
		return tx
	}

	accounts := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.Account{}).
		Select("id").
		Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(keyword))
	return tx.Where("account_id IN (?)", accounts)
}

func FilterPostWithBody(tx *gorm.DB, keyword string) *gorm.DB {
	if len(keyword) == 0 {
		return tx
	}
	return tx.Where("LOWER(body) LIKE ? ESCAPE '\\'", likePattern(keyword))
}

// FilterPostWithCreatedAt applies an inclusive lower and exclusive upper bound, nil means unbounded.
func FilterPostWithCreatedAt(tx *gorm.DB, from, until *time.Time) *gorm.DB {
	if from != nil {
		tx = tx.Where("created_at >= ?", from.UTC())
	}
	if until != nil {
		tx = tx.Where("created_at < ?", until.UTC())
	}
	return tx
}

func PreloadGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Account").
		Preload("Community")
}

func likePattern(keyword string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(keyword)) + "%"
}

// ListPost loads every post matching the filtered query together with its metric.
// Ordering is left to the sort engine.
func ListPost(tx *gorm.DB) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	if err := PreloadGeneral(tx).
		Order("id ASC").
		Find(&posts).Error; err != nil {
		return posts, err
	}

	return CompletePostMetric(tx.Session(&gorm.Session{NewDB: true}), posts)
}

// ListPostInPage loads a single page of the filtered query, newest first.
// take <= 0 loads everything after offset.
func ListPostInPage(tx *gorm.DB, take, offset int) ([]models.Post, error) {
	query := PreloadGeneral(tx).Order("created_at DESC, id DESC")
	if take > 0 {
		query = query.Limit(take)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	posts := make([]models.Post, 0)
	if err := query.Find(&posts).Error; err != nil {
		return posts, err
	}

	return CompletePostMetric(tx.Session(&gorm.Session{NewDB: true}), posts)
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

// CompletePostMetric fills the like and reply counts with one grouped query per metric.
func CompletePostMetric(tx *gorm.DB, posts []models.Post) ([]models.Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}

	idx := lo.Map(posts, func(item models.Post, _ int) uint {
		return item.ID
	})

	likes, err := CountGroupedBy(tx, &models.PostLike{}, "post_id", idx)
	if err != nil {
		return posts, err
	}
	replies, err := CountGroupedBy(tx, &models.Reply{}, "post_id", idx)
	if err != nil {
		return posts, err
	}

	for i, item := range posts {
		posts[i].Metric = models.PostMetric{
			LikeCount:  likes[item.ID],
			ReplyCount: replies[item.ID],
		}
	}

	return posts, nil
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := PreloadGeneral(tx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, wrapQueryError(err, "post")
	}

	out, err := CompletePostMetric(tx.Session(&gorm.Session{NewDB: true}), []models.Post{item})
	if err != nil {
		return item, err
	}

	return out[0], nil
}

func NewPost(user models.Account, item models.Post) (models.Post, error) {
	item.Body = strings.TrimSpace(item.Body)
	if len(item.Body) == 0 && len(item.Images) == 0 && item.Video == nil {
		return item, ErrEmptyContent
	}

	if item.CommunityID != nil {
		if _, err := GetCommunity(database.C, *item.CommunityID); err != nil {
			return item, err
		}
	}

	item.AccountID = user.ID
	item.Language = DetectLanguage(item.Body)

	log.Debug().Uint("account", user.ID).Msg("Posting a post...")
	start := time.Now()

	if err := database.C.Omit(clause.Associations).Create(&item).Error; err != nil {
		return item, err
	}
	item.Account = user

	log.Debug().Dur("elapsed", time.Since(start)).Uint("post", item.ID).Msg("The post is posted.")
	return item, nil
}

func DeletePost(user models.Account, item models.Post) error {
	if item.AccountID != user.ID {
		return fmt.Errorf("you can only delete your own post: %w", ErrForbidden)
	}

	return DeletePostInBatch(database.C, []models.Post{item})
}

// DeletePostInBatch removes the posts together with their replies and likes.
func DeletePostInBatch(tx *gorm.DB, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	idx := lo.Map(posts, func(item models.Post, _ int) uint {
		return item.ID
	})

	return tx.Transaction(func(tx *gorm.DB) error {
		replies := tx.Model(&models.Reply{}).Select("id").Where("post_id IN ?", idx)
		if err := tx.Where("reply_id IN (?)", replies).Delete(&models.ReplyLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN ?", idx).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN ?", idx).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", idx).Delete(&models.Post{}).Error
	})
}
