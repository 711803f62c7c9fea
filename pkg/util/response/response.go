package response

import (
	"github.com/gofiber/fiber/v2"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// Success writes a successful envelope with the given status.
func Success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// OK is Success with 200.
func OK(c *fiber.Ctx, message string, data any) error {
	return Success(c, fiber.StatusOK, message, data)
}

// Created is Success with 201.
func Created(c *fiber.Ctx, message string, data any) error {
	return Success(c, fiber.StatusCreated, message, data)
}

// Error writes a failed envelope. errs is omitted when nil or empty.
func Error(c *fiber.Ctx, status int, message string, errs map[string]any) error {
	body := Envelope{Success: false, Message: message}
	if len(errs) > 0 {
		body.Errors = errs
	}
	return c.Status(status).JSON(body)
}
