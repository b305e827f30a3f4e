package api

import (
	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/community/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func getFeed(c *fiber.Ctx) error {
	feed, err := services.AssembleFeed(database.C, exts.GetViewer(c), services.FeedRequest{
		Tab:  c.Query("tab"),
		Sort: c.Query("sort"),
		CommunitySearch: services.ParseCommunitySearchFilter(
			c.Query("q"),
			c.Query("followers_min"),
			c.Query("followers_max"),
		),
		Take:   c.QueryInt("take", 0),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if feed.Tab == services.FeedTabSearch {
		return c.JSON(fiber.Map{
			"tab":   feed.Tab,
			"count": feed.Count,
			"data":  feed.Communities,
		})
	}

	return c.JSON(fiber.Map{
		"tab":   feed.Tab,
		"count": feed.Count,
		"data":  feed.Posts,
	})
}
