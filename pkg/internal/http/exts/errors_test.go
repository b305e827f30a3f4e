package exts

import (
	"errors"
	"fmt"
	"testing"

	"git.solsynth.dev/hypernet/community/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestNewServiceError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("post %w", services.ErrNotFound), fiber.StatusNotFound},
		{services.ErrForbidden, fiber.StatusForbidden},
		{services.ErrNotCommunityOwner, fiber.StatusForbidden},
		{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{services.ErrAccountExists, fiber.StatusConflict},
		{services.ErrCommunityExists, fiber.StatusConflict},
		{services.ErrInvalidReplyParent, fiber.StatusBadRequest},
		{errors.New("something else"), fiber.StatusBadRequest},
	}

	for _, item := range cases {
		var out *fiber.Error
		assert.True(t, errors.As(NewServiceError(item.err), &out))
		assert.Equal(t, item.status, out.Code, item.err.Error())
		assert.Equal(t, item.err.Error(), out.Message)
	}
}
