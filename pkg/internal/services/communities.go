package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunitySearchFilter struct {
	Name         string
	FollowersMin *int
	FollowersMax *int
}

// ParseCommunitySearchFilter reads the raw query values, bounds that are not integers are ignored.
func ParseCommunitySearchFilter(name, followersMin, followersMax string) CommunitySearchFilter {
	parseBound := func(in string) *int {
		if val, err := strconv.Atoi(strings.TrimSpace(in)); err == nil {
			return &val
		}
		return nil
	}

	return CommunitySearchFilter{
		Name:         strings.TrimSpace(name),
		FollowersMin: parseBound(followersMin),
		FollowersMax: parseBound(followersMax),
	}
}

func (v CommunitySearchFilter) matchFollowers(count int64) bool {
	if v.FollowersMin != nil && count < int64(*v.FollowersMin) {
		return false
	}
	if v.FollowersMax != nil && count > int64(*v.FollowersMax) {
		return false
	}
	return true
}

func FilterCommunityWithName(tx *gorm.DB, keyword string) *gorm.DB {
	if len(keyword) == 0 {
		return tx
	}
	return tx.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(keyword))
}

// SearchCommunities narrows by name in the query, then checks follower bounds
// against the materialized counts and finally sorts.
func SearchCommunities(tx *gorm.DB, filter CommunitySearchFilter, key CommunitySortKey) ([]models.Community, error) {
	var communities []models.Community
	if err := FilterCommunityWithName(tx.Model(&models.Community{}), filter.Name).
		Find(&communities).Error; err != nil {
		return make([]models.Community, 0), err
	}

	communities, err := CompleteCommunityMetric(tx.Session(&gorm.Session{NewDB: true}), communities)
	if err != nil {
		return make([]models.Community, 0), err
	}

	communities = lo.Filter(communities, func(item models.Community, _ int) bool {
		return filter.matchFollowers(item.Metric.FollowerCount)
	})

	return SortCommunities(communities, key), nil
}

func CompleteCommunityMetric(tx *gorm.DB, communities []models.Community) ([]models.Community, error) {
	if len(communities) == 0 {
		return communities, nil
	}

	idx := lo.Map(communities, func(item models.Community, _ int) uint {
		return item.ID
	})
	followers, err := CountGroupedBy(tx, &models.CommunityFollow{}, "community_id", idx)
	if err != nil {
		return communities, err
	}

	for i, item := range communities {
		communities[i].Metric = models.CommunityMetric{
			FollowerCount: followers[item.ID],
		}
	}
	return communities, nil
}

func GetCommunity(tx *gorm.DB, id uint) (models.Community, error) {
	var community models.Community
	if err := tx.Where("id = ?", id).Preload("Account").First(&community).Error; err != nil {
		return community, wrapQueryError(err, "community")
	}

	out, err := CompleteCommunityMetric(tx.Session(&gorm.Session{NewDB: true}), []models.Community{community})
	if err != nil {
		return community, err
	}
	return out[0], nil
}

func GetCommunityByName(tx *gorm.DB, name string) (models.Community, error) {
	var community models.Community
	if err := tx.Where("name = ?", name).First(&community).Error; err != nil {
		return community, wrapQueryError(err, "community")
	}
	return community, nil
}

// NewCommunity creates a community, a nil creator makes it an official one.
func NewCommunity(user *models.Account, item models.Community) (models.Community, error) {
	item.Name = strings.TrimSpace(item.Name)
	if len(item.Name) == 0 {
		return item, fmt.Errorf("community name is required")
	}

	if _, err := GetCommunityByName(database.C, item.Name); err == nil {
		return item, ErrCommunityExists
	} else if !errors.Is(err, ErrNotFound) {
		return item, err
	}

	if user != nil {
		item.AccountID = &user.ID
	} else {
		item.AccountID = nil
	}

	if err := database.C.Omit(clause.Associations).Create(&item).Error; err != nil {
		return item, err
	}
	item.Account = user

	return item, nil
}

func DeleteCommunity(user models.Account, item models.Community) error {
	if item.AccountID == nil || *item.AccountID != user.ID {
		return ErrNotCommunityOwner
	}

	var posts []models.Post
	if err := database.C.Where("community_id = ?", item.ID).Select("id").Find(&posts).Error; err != nil {
		return err
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := DeletePostInBatch(tx, posts); err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", item.ID).Delete(&models.CommunityFollow{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Community{}, item.ID).Error; err != nil {
			return err
		}

		InvalidateFollowCache()
		return nil
	})
}

type OfficialCommunityConfig struct {
	Name        string  `mapstructure:"name"`
	Description string  `mapstructure:"description"`
	Icon        *string `mapstructure:"icon"`
}

// EnsureOfficialCommunities creates the communities listed under communities.official if missing.
func EnsureOfficialCommunities() error {
	var configs []OfficialCommunityConfig
	if err := viper.UnmarshalKey("communities.official", &configs); err != nil {
		return fmt.Errorf("unable to read official communities config: %v", err)
	}

	for _, config := range configs {
		_, err := NewCommunity(nil, models.Community{
			Name:        config.Name,
			Description: config.Description,
			Icon:        config.Icon,
		})
		if err != nil && !errors.Is(err, ErrCommunityExists) {
			return err
		}
	}

	log.Info().Int("count", len(configs)).Msg("Official communities are ready.")
	return nil
}
