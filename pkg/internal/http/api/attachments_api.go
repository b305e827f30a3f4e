package api

import (
	"git.solsynth.dev/hypernet/community/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/community/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func uploadAttachment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	name, kind, err := services.SaveAttachment(file)
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"name": name,
		"type": kind,
		"url":  "/uploads/" + name,
	})
}
