// README: Itinerary endpoints (validate, generate, saved-itinerary CRUD) scoped to the caller's slot.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"travelplanner/internal/http/middleware"
	"travelplanner/internal/modules/itinerary"
	"travelplanner/internal/modules/planner"
	"travelplanner/internal/modules/preference"
	"travelplanner/internal/types"
)

type ItineraryHandler struct {
	planner *planner.Service
	store   *itinerary.Store
	timeout time.Duration
}

// NewItineraryHandler builds the handler. timeout bounds one generate request; 0 means none.
func NewItineraryHandler(plannerSvc *planner.Service, store *itinerary.Store, timeout time.Duration) *ItineraryHandler {
	return &ItineraryHandler{planner: plannerSvc, store: store, timeout: timeout}
}

func (h *ItineraryHandler) callerStore(c *gin.Context) *itinerary.Store {
	return h.store.For(middleware.CallerUID(c))
}

// Destinations handles GET /api/destinations?q=.
func (h *ItineraryHandler) Destinations(c *gin.Context) {
	writeJSON(c, http.StatusOK, map[string]any{"destinations": preference.Suggestions(c.Query("q"))})
}

// Validate handles POST /api/itineraries/validate.
func (h *ItineraryHandler) Validate(c *gin.Context) {
	var req preference.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(c, http.StatusOK, preference.Validate(req))
}

// Generate handles POST /api/itineraries/generate.
func (h *ItineraryHandler) Generate(c *gin.Context) {
	var req preference.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	it, res := h.planner.Plan(ctx, middleware.CallerUID(c), req)
	if !res.Valid {
		writeJSON(c, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(c, http.StatusCreated, it)
}

// List handles GET /api/itineraries.
func (h *ItineraryHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, map[string]any{"itineraries": h.callerStore(c).List(c.Request.Context())})
}

// Get handles GET /api/itineraries/:id.
func (h *ItineraryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	it := h.callerStore(c).GetByID(c.Request.Context(), id)
	if it == nil {
		writeServiceError(c, itinerary.ErrNotFound)
		return
	}
	writeJSON(c, http.StatusOK, it)
}

// Save handles POST /api/itineraries.
func (h *ItineraryHandler) Save(c *gin.Context) {
	it, ok := bindItinerary(c)
	if !ok {
		return
	}
	if it.ID != "" && !isValidID(string(it.ID)) {
		writeError(c, http.StatusBadRequest, "invalid id")
		return
	}
	status := http.StatusCreated
	if it.ID != "" {
		status = http.StatusOK
	}
	h.save(c, it, status)
}

// Update handles PUT /api/itineraries/:id.
func (h *ItineraryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	it, ok := bindItinerary(c)
	if !ok {
		return
	}
	if h.callerStore(c).GetByID(c.Request.Context(), id) == nil {
		writeServiceError(c, itinerary.ErrNotFound)
		return
	}
	it.ID = id
	h.save(c, it, http.StatusOK)
}

// Delete handles DELETE /api/itineraries/:id.
func (h *ItineraryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !h.callerStore(c).DeleteByID(c.Request.Context(), id) {
		writeServiceError(c, itinerary.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ItineraryHandler) save(c *gin.Context, it itinerary.Itinerary, status int) {
	saved := h.callerStore(c).Save(c.Request.Context(), it)
	if saved == nil {
		writeError(c, http.StatusServiceUnavailable, "itinerary storage unavailable")
		return
	}
	writeJSON(c, status, saved)
}

func pathID(c *gin.Context) (types.ID, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid id")
		return "", false
	}
	return types.ID(id), true
}

func bindItinerary(c *gin.Context) (itinerary.Itinerary, bool) {
	var it itinerary.Itinerary
	if err := c.ShouldBindJSON(&it); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return it, false
	}
	if err := checkItinerary(it); err != nil {
		writeServiceError(c, err)
		return it, false
	}
	// Provenance and timestamps are owned by the server.
	it.Source = ""
	it.FallbackReason = ""
	it.SavedAt = nil
	it.UpdatedAt = nil
	return it, true
}

func checkItinerary(it itinerary.Itinerary) error {
	if strings.TrimSpace(it.Destination) == "" {
		return fmt.Errorf("%w: destination is required", itinerary.ErrBadRequest)
	}
	if len(it.Days) == 0 {
		return fmt.Errorf("%w: at least one day is required", itinerary.ErrBadRequest)
	}
	return nil
}
