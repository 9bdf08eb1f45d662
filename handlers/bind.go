package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tunereel/models"
	"tunereel/utils"
)

// bind parses the JSON body into payload and runs struct validation,
// reporting problems as ValidationError so the response mapper emits a
// 400.
func (h *ApplicationHandler) bind(c *fiber.Ctx, payload interface{}) error {
	if err := c.BodyParser(payload); err != nil {
		return models.NewValidationError("Invalid request body: %v", err)
	}
	if err := h.Validate.Struct(payload); err != nil {
		msgs := utils.FormatValidationErrors(err)
		if len(msgs) == 0 {
			return models.NewValidationError("Invalid request body")
		}
		return models.NewValidationError("%s", strings.Join(msgs, "; "))
	}
	return nil
}
