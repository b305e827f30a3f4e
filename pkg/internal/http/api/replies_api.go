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

func listPostReply(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)

	post, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	tree, err := services.GetPostReplyTree(database.C, post.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": services.CountReplyNodes(tree),
		"data":  tree,
	})
}

func createReply(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("postId", 0)

	var data struct {
		Body     string   `json:"body" validate:"max=4096"`
		Images   []string `json:"images" validate:"max=10"`
		Video    *string  `json:"video"`
		ParentID *uint    `json:"parent_id"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	post, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	item, err := services.NewReply(user, post, models.Reply{
		Body:     data.Body,
		Images:   data.Images,
		Video:    data.Video,
		ParentID: data.ParentID,
	})
	if err != nil {
		return exts.NewServiceError(err)
	}

	_ = gap.AddEvent("replies.new", fmt.Sprintf("reply#%d", item.ID), &user.ID)

	return c.Status(fiber.StatusCreated).JSON(item)
}

func deleteReply(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("replyId", 0)

	item, err := services.GetReply(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if err := services.DeleteReply(user, item); err != nil {
		return exts.NewServiceError(err)
	}

	_ = gap.AddEvent("replies.delete", fmt.Sprintf("reply#%d", item.ID), &user.ID)

	return c.SendStatus(fiber.StatusOK)
}

func likeReply(c *fiber.Ctx) error {
	return toggleReplyLike(c, true)
}

func unlikeReply(c *fiber.Ctx) error {
	return toggleReplyLike(c, false)
}

func toggleReplyLike(c *fiber.Ctx, like bool) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("replyId", 0)

	item, err := services.GetReply(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if like {
		_, err = services.LikeReply(user, item)
	} else {
		_, err = services.UnlikeReply(user, item)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	count, err := services.CountReplyLikes(database.C, item.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"liked": like,
		"count": count,
	})
}
