package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/parts-pile/valuator/ui"
)

// HandleAdmin renders the status page with artifact, catalog and cache details.
func (h *Handler) HandleAdmin(c *fiber.Ctx) error {
	stats, enabled := h.state.Pricer.CacheStats()
	return render(c, ui.AdminPage(ui.AdminStatus{
		Source:       h.state.Source,
		Listings:     h.state.Listings,
		Companies:    len(h.state.Catalog.Companies),
		Years:        len(h.state.Catalog.Years),
		FuelTypes:    len(h.state.Catalog.FuelTypes),
		Artifacts:    h.state.Artifacts,
		CacheEnabled: enabled,
		Cache:        stats,
	}))
}

// HandleCacheStats returns the prediction cache metrics. htmx requests get
// the rendered panel instead of JSON.
func (h *Handler) HandleCacheStats(c *fiber.Ctx) error {
	stats, enabled := h.state.Pricer.CacheStats()
	if !enabled {
		return fiber.NewError(fiber.StatusNotFound, "Prediction cache is disabled")
	}
	if c.Get("HX-Request") != "" {
		return render(c, ui.CacheStatsPanel(stats))
	}
	return c.JSON(stats)
}

// HandleClearCache drops all memoized predictions.
func (h *Handler) HandleClearCache(c *fiber.Ctx) error {
	h.state.Pricer.ClearCache()
	return h.HandleCacheStats(c)
}
