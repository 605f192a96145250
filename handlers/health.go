package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	health := fiber.Map{
		"status":    "ok",
		"artifacts": "loaded",
		"listings":  h.state.Listings,
		"input_dim": h.state.Artifacts.InputDim,
	}

	if h.state.Catalog.Empty() || h.state.Pricer == nil {
		health["status"] = "unhealthy"
		c.Status(fiber.StatusServiceUnavailable)
	}

	return c.JSON(health)
}
