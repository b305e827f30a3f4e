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

func listConversation(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	partners, err := services.ListConversationPartners(database.C, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(partners)
}

func countUnreadMessage(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	count, err := services.CountUnreadMessages(database.C, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"count": count})
}

// getConversation returns the whole conversation and marks the incoming part as read.
func getConversation(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	partner, err := services.GetAccountByName(database.C, c.Params("name"))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if _, err := services.MarkConversationRead(user.ID, partner.ID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListConversation(database.C, user.ID, partner.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"partner": partner,
		"count":   len(items),
		"data":    items,
	})
}

func sendMessage(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		Recipient string `json:"recipient" validate:"required"`
		Body      string `json:"body" validate:"required,max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.SendMessage(user, data.Recipient, data.Body)
	if err != nil {
		return exts.NewServiceError(err)
	}

	_ = gap.AddEvent("messages.new", fmt.Sprintf("message#%d", item.ID), &user.ID)

	return c.Status(fiber.StatusCreated).JSON(item)
}

func deleteMessage(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("messageId", 0)

	item, err := services.GetMessage(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if err := services.DeleteMessage(user, item); err != nil {
		return exts.NewServiceError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}
