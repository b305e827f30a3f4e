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

func getPost(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	tree, err := services.GetPostReplyTree(database.C, item.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var isLiked bool
	if viewer := exts.GetViewer(c); !viewer.IsAnonymous() {
		if isLiked, err = services.IsPostLiked(database.C, *viewer.AccountID, item.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(fiber.Map{
		"post":     item,
		"replies":  tree,
		"is_liked": isLiked,
	})
}

func searchPost(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	filter := services.ParsePostSearchFilter(
		c.Query("username"),
		c.Query("body"),
		c.Query("from"),
		c.Query("to"),
	)

	items, err := services.SearchPosts(database.C, filter, services.ParsePostSortKey(c.Query("sort")))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  services.Paginate(items, take, offset),
	})
}

func createPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		Body        string   `json:"body" validate:"max=4096"`
		Images      []string `json:"images" validate:"max=10"`
		Video       *string  `json:"video"`
		CommunityID *uint    `json:"community_id"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item := models.Post{
		Body:        data.Body,
		Images:      data.Images,
		Video:       data.Video,
		CommunityID: data.CommunityID,
	}

	item, err := services.NewPost(user, item)
	if err != nil {
		return exts.NewServiceError(err)
	}

	_ = gap.AddEvent("posts.new", fmt.Sprintf("post#%d", item.ID), &user.ID)

	return c.Status(fiber.StatusCreated).JSON(item)
}

func deletePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("postId", 0)

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if err := services.DeletePost(user, item); err != nil {
		return exts.NewServiceError(err)
	}

	_ = gap.AddEvent("posts.delete", fmt.Sprintf("post#%d", item.ID), &user.ID)

	return c.SendStatus(fiber.StatusOK)
}

func likePost(c *fiber.Ctx) error {
	return togglePostLike(c, true)
}

func unlikePost(c *fiber.Ctx) error {
	return togglePostLike(c, false)
}

func togglePostLike(c *fiber.Ctx, like bool) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("postId", 0)

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	var changed bool
	if like {
		changed, err = services.LikePost(user, item)
	} else {
		changed, err = services.UnlikePost(user, item)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if changed {
		action := "posts.like"
		if !like {
			action = "posts.unlike"
		}
		_ = gap.AddEvent(action, fmt.Sprintf("post#%d", item.ID), &user.ID)
	}

	count, err := services.CountPostLikes(database.C, item.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"liked": like,
		"count": count,
	})
}
