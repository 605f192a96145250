package handlers

import (
	"github.com/parts-pile/valuator/estimator"
	"github.com/parts-pile/valuator/pricing"
	"github.com/parts-pile/valuator/vehicle"
)

// State is everything the handlers read. It is assembled once at startup and
// shared read-only by all requests.
type State struct {
	Catalog   vehicle.Catalog
	Pricer    *pricing.Service
	Artifacts estimator.Summary
	Listings  int
	Source    string
}

// Handler serves the HTTP endpoints over a fixed State.
type Handler struct {
	state State
}

func New(state State) *Handler {
	return &Handler{state: state}
}
