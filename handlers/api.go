package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/parts-pile/valuator/pricing"
)

// PredictResponse is the body returned by a successful prediction.
type PredictResponse struct {
	EstimatedPrice json.Number `json:"estimated_price"`
}

// HandleOptions returns the selectable companies, models, years and fuel types.
func (h *Handler) HandleOptions(c *fiber.Ctx) error {
	if h.state.Catalog.Empty() {
		return fiber.NewError(fiber.StatusInternalServerError, "Options are unavailable")
	}
	return c.JSON(h.state.Catalog)
}

// HandlePredict validates the request body and returns the estimated price.
func (h *Handler) HandlePredict(c *fiber.Ctx) error {
	req, err := pricing.ParseRequest(c.Body())
	if err != nil {
		return err
	}

	price, err := h.state.Pricer.Estimate(c.UserContext(), req)
	if err != nil {
		return err
	}

	log.Printf("[predict] %s %s %d %s %dkm -> %s", req.Company, req.Name, req.Year, req.FuelType, req.KmsDriven, price.StringFixed(pricing.PriceDecimals))
	return c.JSON(PredictResponse{EstimatedPrice: pricing.FormatPrice(price)})
}
