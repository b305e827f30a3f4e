package api

import (
	"fmt"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/gap"
	"git.solsynth.dev/hypernet/community/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"git.solsynth.dev/hypernet/community/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func searchCommunity(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	filter := services.ParseCommunitySearchFilter(
		c.Query("q"),
		c.Query("followers_min"),
		c.Query("followers_max"),
	)

	items, err := services.SearchCommunities(database.C, filter, services.ParseCommunitySortKey(c.Query("sort")))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  services.Paginate(items, take, offset),
	})
}

func getCommunity(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("communityId", 0)

	item, err := services.GetCommunity(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	var isFollowing bool
	if viewer := exts.GetViewer(c); !viewer.IsAnonymous() {
		if isFollowing, err = services.IsFollowingCommunity(database.C, *viewer.AccountID, item.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(fiber.Map{
		"community":    item,
		"is_following": isFollowing,
	})
}

func listCommunityPost(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)
	id, _ := c.ParamsInt("communityId", 0)

	community, err := services.GetCommunity(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	items, err := services.ListCommunityPosts(database.C, community.ID, services.ParsePostSortKey(c.Query("sort")))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  services.Paginate(items, take, offset),
	})
}

func createCommunity(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		Name        string  `json:"name" validate:"required,max=80"`
		Description string  `json:"description" validate:"max=4096"`
		Icon        *string `json:"icon"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewCommunity(&user, models.Community{
		Name:        data.Name,
		Description: data.Description,
		Icon:        data.Icon,
	})
	if err != nil {
		return exts.NewServiceError(err)
	}

	_ = gap.AddEvent("communities.new", fmt.Sprintf("community#%d", item.ID), &user.ID)

	return c.Status(fiber.StatusCreated).JSON(item)
}

func deleteCommunity(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("communityId", 0)

	item, err := services.GetCommunity(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if err := services.DeleteCommunity(user, item); err != nil {
		return exts.NewServiceError(err)
	}

	_ = gap.AddEvent("communities.delete", fmt.Sprintf("community#%d", item.ID), &user.ID)

	return c.SendStatus(fiber.StatusOK)
}

func followCommunity(c *fiber.Ctx) error {
	return toggleCommunityFollow(c, true)
}

func unfollowCommunity(c *fiber.Ctx) error {
	return toggleCommunityFollow(c, false)
}

func toggleCommunityFollow(c *fiber.Ctx, follow bool) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("communityId", 0)

	item, err := services.GetCommunity(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	var changed bool
	if follow {
		changed, err = services.FollowCommunity(user, item)
	} else {
		changed, err = services.UnfollowCommunity(user, item)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if changed {
		action := "communities.follow"
		if !follow {
			action = "communities.unfollow"
		}
		_ = gap.AddEvent(action, fmt.Sprintf("community#%d", item.ID), &user.ID)
	}

	return c.JSON(fiber.Map{
		"following": follow,
		"changed":   changed,
	})
}
