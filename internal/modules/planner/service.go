package planner

import (
	"context"
	"errors"
	"log"

	"travelplanner/internal/modules/aiusage"
	"travelplanner/internal/modules/itinerary"
	"travelplanner/internal/modules/preference"
)

// Usage consumes one AI generation from a caller's allowance.
type Usage interface {
	UseToken(ctx context.Context, uid string) error
}

// Service validates a trip request, generates an itinerary and saves it to
// the owner's store.
type Service struct {
	gen   *Generator
	usage Usage
	store *itinerary.Store
}

// NewService wires the planner. usage and store may be nil.
func NewService(gen *Generator, usage Usage, store *itinerary.Store) *Service {
	return &Service{gen: gen, usage: usage, store: store}
}

// Plan returns the saved itinerary, or nil with the validation result when
// the request is invalid. When persistence fails the unsaved itinerary is returned.
func (s *Service) Plan(ctx context.Context, owner string, in preference.Input) (*itinerary.Itinerary, preference.Result) {
	p, res := preference.Parse(in)
	if !res.Valid {
		return nil, res
	}

	var it *itinerary.Itinerary
	if s.quotaExhausted(ctx, owner) {
		it = fallbackWithReason(p, ReasonQuota)
	} else {
		it = s.gen.Generate(ctx, p)
	}

	if s.store == nil {
		return it, res
	}
	if saved := s.store.For(owner).Save(ctx, *it); saved != nil {
		return saved, res
	}
	return it, res
}

func (s *Service) quotaExhausted(ctx context.Context, owner string) bool {
	if s.usage == nil || !s.gen.Enabled() {
		return false
	}
	err := s.usage.UseToken(ctx, owner)
	switch {
	case err == nil:
		return false
	case errors.Is(err, aiusage.ErrInsufficientTokens):
		return true
	default:
		log.Printf("planner: ai usage for %s: %v", owner, err)
		return false
	}
}
