package api

import (
	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"git.solsynth.dev/hypernet/community/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func register(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"name" validate:"required,min=2,max=80"`
		Password string `json:"password" validate:"required,min=6,max=72"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.RegisterAccount(data.Name, data.Password)
	if err != nil {
		return exts.NewServiceError(err)
	}

	token, err := services.NewAccessToken(account)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"account": account,
		"token":   token,
	})
}

func login(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"name" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.AuthenticateAccount(data.Name, data.Password)
	if err != nil {
		return exts.NewServiceError(err)
	}

	token, err := services.NewAccessToken(account)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"account": account,
		"token":   token,
	})
}

func getMyself(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	return c.JSON(user)
}

func editMyself(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		Nick        *string `json:"nick" validate:"omitempty,max=120"`
		Description string  `json:"description" validate:"max=4096"`
		Avatar      *string `json:"avatar"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user.Nick = data.Nick
	user.Description = data.Description
	user.Avatar = data.Avatar

	account, err := services.EditAccount(user)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(account)
}

func getAccount(c *fiber.Ctx) error {
	account, err := services.GetAccountByName(database.C, c.Params("name"))
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(account)
}

func listAccountPost(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	account, err := services.GetAccountByName(database.C, c.Params("name"))
	if err != nil {
		return exts.NewServiceError(err)
	}

	items, err := services.ListAuthorPosts(database.C, account.ID, services.ParsePostSortKey(c.Query("sort")))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  services.Paginate(items, take, offset),
	})
}

func listFollowedCommunity(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	items, err := services.ListFollowedCommunities(database.C, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(items)
}
