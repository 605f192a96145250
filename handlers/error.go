package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/parts-pile/valuator/estimator"
	"github.com/parts-pile/valuator/pricing"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// CustomErrorHandler maps errors to status codes: validation problems are 400,
// unknown categories 422, and anything unexpected a generic 500.
func CustomErrorHandler(ctx *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError
	resp := ErrorResponse{Error: "Internal server error"}

	var (
		verr    *pricing.ValidationError
		unknown *estimator.UnknownCategoryError
		e       *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		code = fiber.StatusBadRequest
		resp = ErrorResponse{Error: verr.Error(), Field: verr.Field}
	case errors.As(err, &unknown):
		// encoder feature names match the request field names
		code = fiber.StatusUnprocessableEntity
		resp = ErrorResponse{Error: unknown.Error(), Field: unknown.Feature}
	case errors.As(err, &e):
		code = e.Code
		resp.Error = e.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("[error] %s %s: %v", ctx.Method(), ctx.Path(), err)
	}

	return ctx.Status(code).JSON(resp)
}
