package exts

import (
	"strings"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"git.solsynth.dev/hypernet/community/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ContextMiddleware resolves the bearer token into c.Locals("user").
// Requests without a token continue anonymously.
func ContextMiddleware(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(token) == 0 {
		return c.Next()
	}
	if !strings.HasPrefix(token, "Bearer ") {
		return fiber.NewError(fiber.StatusUnauthorized, "unsupported authorization scheme")
	}

	claims, err := services.ReadAccessToken(strings.TrimSpace(strings.TrimPrefix(token, "Bearer ")))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}
	account, err := services.GetAccount(database.C, claims.AccountID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	c.Locals("user", account)
	return c.Next()
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := c.Locals("user").(models.Account); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "you need to sign in first")
	}
	return nil
}

// GetViewer turns the request identity into the explicit viewer passed down to services.
func GetViewer(c *fiber.Ctx) services.Viewer {
	if user, ok := c.Locals("user").(models.Account); ok {
		return services.Viewer{AccountID: &user.ID}
	}
	return services.Viewer{}
}
