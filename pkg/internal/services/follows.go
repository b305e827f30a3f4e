package services

import (
	"context"
	"fmt"
	"time"

	localCache "git.solsynth.dev/hypernet/community/pkg/internal/cache"
	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const followCacheTag = "community-follows"

type followCacheState struct {
	Communities []uint
}

func getFollowCacheKey(account uint) string {
	return fmt.Sprintf("community-follows#%d", account)
}

func newFollowCacheMarshaler() *marshaler.Marshaler {
	if localCache.S == nil {
		return nil
	}
	return marshaler.New(cache.New[any](localCache.S))
}

// GetFollowedCommunityIDs lists the communities the account follows.
// The result is cached for a few minutes, follow changes drop the entry.
func GetFollowedCommunityIDs(tx *gorm.DB, account uint) ([]uint, error) {
	marshal := newFollowCacheMarshaler()
	ctx := context.Background()
	key := getFollowCacheKey(account)

	if marshal != nil {
		if raw, err := marshal.Get(ctx, key, new(followCacheState)); err == nil {
			return raw.(*followCacheState).Communities, nil
		}
	}

	idx := make([]uint, 0)
	if err := tx.Model(&models.CommunityFollow{}).
		Where("account_id = ?", account).
		Order("community_id ASC").
		Pluck("community_id", &idx).Error; err != nil {
		return idx, err
	}

	if marshal != nil {
		_ = marshal.Set(
			ctx,
			key,
			followCacheState{Communities: idx},
			store.WithExpiration(5*time.Minute),
			store.WithTags([]string{followCacheTag, fmt.Sprintf("account#%d", account)}),
		)
	}

	return idx, nil
}

func invalidateFollowCacheOf(account uint) {
	if marshal := newFollowCacheMarshaler(); marshal != nil {
		if err := marshal.Delete(context.Background(), getFollowCacheKey(account)); err != nil {
			log.Debug().Err(err).Uint("account", account).Msg("Unable to drop follow cache entry...")
		}
	}
}

// InvalidateFollowCache drops every cached follow set.
func InvalidateFollowCache() {
	if marshal := newFollowCacheMarshaler(); marshal != nil {
		_ = marshal.Invalidate(context.Background(), store.WithInvalidateTags([]string{followCacheTag}))
	}
}

func IsFollowingCommunity(tx *gorm.DB, account uint, community uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.CommunityFollow{}).
		Where("account_id = ? AND community_id = ?", account, community).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowCommunity inserts the follow record if absent and reports whether one was created.
func FollowCommunity(user models.Account, community models.Community) (bool, error) {
	follow := models.CommunityFollow{
		AccountID:   user.ID,
		CommunityID: community.ID,
	}

	tx := database.C.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
	if tx.Error != nil {
		return false, fmt.Errorf("unable to follow community: %v", tx.Error)
	}

	invalidateFollowCacheOf(user.ID)
	return tx.RowsAffected > 0, nil
}

// UnfollowCommunity deletes the follow record if present and reports whether one was removed.
func UnfollowCommunity(user models.Account, community models.Community) (bool, error) {
	tx := database.C.
		Where("account_id = ? AND community_id = ?", user.ID, community.ID).
		Delete(&models.CommunityFollow{})
	if tx.Error != nil {
		return false, fmt.Errorf("unable to unfollow community: %v", tx.Error)
	}

	invalidateFollowCacheOf(user.ID)
	return tx.RowsAffected > 0, nil
}

func ListFollowedCommunities(tx *gorm.DB, account uint) ([]models.Community, error) {
	idx, err := GetFollowedCommunityIDs(tx, account)
	if err != nil {
		return nil, err
	}

	communities := make([]models.Community, 0)
	if len(idx) == 0 {
		return communities, nil
	}
	if err := tx.Where("id IN ?", idx).Find(&communities).Error; err != nil {
		return communities, err
	}

	communities, err = CompleteCommunityMetric(tx.Session(&gorm.Session{NewDB: true}), communities)
	if err != nil {
		return communities, err
	}
	return SortCommunities(communities, CommunitySortName), nil
}
