// README: API gateway; wires module services into gin handlers.
package http

import (
	"time"

	"travelplanner/internal/http/handlers"
	"travelplanner/internal/http/middleware"
	"travelplanner/internal/modules/account"
	"travelplanner/internal/modules/itinerary"
	"travelplanner/internal/modules/planner"
)

type ServerDeps struct {
	Planner   *planner.Service
	Itinerary *itinerary.Store
	Accounts  *account.Service
	Verifier  middleware.TokenVerifier
	AITimeout time.Duration
	PerMinute int
}

type Server struct {
	itineraries *handlers.ItineraryHandler
	accounts    *handlers.AccountHandler
	verifier    middleware.TokenVerifier
	limiter     *middleware.RateLimiter
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		itineraries: handlers.NewItineraryHandler(deps.Planner, deps.Itinerary, deps.AITimeout),
		accounts:    handlers.NewAccountHandler(deps.Accounts),
		verifier:    deps.Verifier,
		limiter:     middleware.NewRateLimiter(deps.PerMinute),
	}
}
