// README: Itinerary generator (model call + extraction) with deterministic fallback.
package planner

import (
	"context"
	"log"

	"travelplanner/internal/ai"
	"travelplanner/internal/modules/itinerary"
	"travelplanner/internal/modules/preference"
)

// Fallback reasons recorded on itineraries built by Fallback.
const (
	ReasonDisabled  = "generation disabled"
	ReasonTransport = "generation service error"
	ReasonSchema    = "unusable generation response"
	ReasonQuota     = "monthly AI quota exhausted"
)

// Enricher adds derived data (e.g. coordinates) to a generated itinerary.
type Enricher interface {
	Enrich(ctx context.Context, it *itinerary.Itinerary)
}

// Generator produces itineraries. Generate never fails: every model or
// schema failure is logged and replaced by Fallback output.
type Generator struct {
	model    ai.TextGenerator
	enricher Enricher
}

// NewGenerator builds a Generator. A nil model disables the AI path.
func NewGenerator(model ai.TextGenerator, enricher Enricher) *Generator {
	return &Generator{model: model, enricher: enricher}
}

// Enabled reports whether a model is configured.
func (g *Generator) Enabled() bool { return g != nil && g.model != nil }

// Generate makes one model call for p and returns either the validated AI
// itinerary or the fallback with FallbackReason set.
func (g *Generator) Generate(ctx context.Context, p preference.Preference) *itinerary.Itinerary {
	if !g.Enabled() {
		return fallbackWithReason(p, ReasonDisabled)
	}

	prompt := BuildPrompt(p)
	text, err := g.model.GenerateText(ctx, prompt.Text)
	if err != nil {
		log.Printf("planner: generate %s: %v", p.Destination, err)
		return fallbackWithReason(p, ReasonTransport)
	}

	it, err := ParseItinerary(text, p)
	if err != nil {
		log.Printf("planner: parse response for %s: %v", p.Destination, err)
		return fallbackWithReason(p, ReasonSchema)
	}

	if g.enricher != nil {
		g.enricher.Enrich(ctx, it)
	}
	return it
}

func fallbackWithReason(p preference.Preference, reason string) *itinerary.Itinerary {
	it := Fallback(p)
	it.FallbackReason = reason
	return it
}
