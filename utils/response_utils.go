package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tunereel/models"
)

// RespondWithError sends a JSON error response with an explicit code.
func RespondWithError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

// RespondWithAppError maps an error from the pipeline taxonomy to its
// HTTP shape: 400 for caller mistakes, 404 for missing artifacts, 504
// for exhausted polls, 500 for configuration, provider and extraction
// failures. Provider diagnostics ride along in details.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	var (
		validationErr *models.ValidationError
		configErr     *models.ConfigurationError
		providerErr   *models.ProviderError
		timeoutErr    *models.JobTimeoutError
		extractErr    *models.ExtractionError
	)

	switch {
	case errors.As(err, &validationErr):
		return RespondWithError(c, fiber.StatusBadRequest, "validation_error", validationErr.Message)
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, fiber.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &configErr):
		return RespondWithError(c, fiber.StatusInternalServerError, "configuration_error", configErr.Message)
	case errors.As(err, &timeoutErr):
		return RespondWithError(c, fiber.StatusGatewayTimeout, "job_timeout", timeoutErr.Error())
	case errors.As(err, &providerErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   providerErr.Provider + ": " + providerErr.Message,
			"code":    "provider_error",
			"details": providerErr.Raw,
		})
	case errors.As(err, &extractErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   extractErr.Message,
			"code":    "extraction_failed",
			"details": extractErr.Detail,
		})
	default:
		return RespondWithError(c, fiber.StatusInternalServerError, "internal_error", err.Error())
	}
}

// FormatValidationErrors flattens validator/v10 errors into messages a
// caller can act on.
func FormatValidationErrors(err error) []string {
	var out []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msg := fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s (value: %s)", msg, fe.Param())
			}
			out = append(out, msg)
		}
	}
	return out
}
