// README: Itinerary aggregate (days, activities) plus placeholder and type normalization.
package itinerary

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"travelplanner/internal/types"
)

type ActivityType string

const (
	TypeAttraction ActivityType = "attraction"
	TypeRestaurant ActivityType = "restaurant"
	TypeShopping   ActivityType = "shopping"
	TypeTransport  ActivityType = "transport"
	TypeOther      ActivityType = "other"
)

// ActivityTypes lists the accepted activity types.
var ActivityTypes = []ActivityType{TypeAttraction, TypeRestaurant, TypeShopping, TypeTransport, TypeOther}

// Source records which path produced an itinerary.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Placeholder descriptions used in the generation schema. A field still holding
// one of these was left unset by the model and counts as empty.
const (
	ImageURLPlaceholder    = "URL to an image of this place (publicly accessible image only)"
	CoordinatesPlaceholder = "Exact latitude and longitude if known, otherwise leave empty"
)

var (
	ErrNotFound   = errors.New("itinerary not found")
	ErrBadRequest = errors.New("bad request")
)

type Activity struct {
	ID          string       `json:"id"`
	Time        string       `json:"time"`
	Title       string       `json:"title"`
	Location    string       `json:"location"`
	Description string       `json:"description"`
	Type        ActivityType `json:"type"`
	ImageURL    string       `json:"imageUrl"`
	Coordinates string       `json:"coordinates"`
}

type Day struct {
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
}

type Itinerary struct {
	ID             types.ID   `json:"id,omitempty"`
	Destination    string     `json:"destination"`
	StartDate      string     `json:"startDate"`
	EndDate        string     `json:"endDate"`
	Summary        string     `json:"summary"`
	Tips           []string   `json:"tips"`
	Days           []Day      `json:"days"`
	Source         Source     `json:"source,omitempty"`
	FallbackReason string     `json:"fallbackReason,omitempty"`
	SavedAt        *time.Time `json:"savedAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// IsFallback reports whether the itinerary came from the deterministic builder.
func (it Itinerary) IsFallback() bool { return it.Source == SourceFallback }

// ActivityCount is the total number of activities across all days.
func (it Itinerary) ActivityCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Activities)
	}
	return n
}

// Clone returns a deep copy. Nil slices stay nil.
func (it Itinerary) Clone() Itinerary {
	out := it
	if it.Tips != nil {
		out.Tips = append([]string(nil), it.Tips...)
	}
	if it.Days != nil {
		out.Days = make([]Day, len(it.Days))
		for i, d := range it.Days {
			out.Days[i] = Day{Date: d.Date}
			if d.Activities != nil {
				out.Days[i].Activities = append([]Activity(nil), d.Activities...)
			}
		}
	}
	if it.SavedAt != nil {
		t := *it.SavedAt
		out.SavedAt = &t
	}
	if it.UpdatedAt != nil {
		t := *it.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// Normalize clears placeholder values and maps unknown activity types to "other".
func (it *Itinerary) Normalize() {
	for i := range it.Days {
		for j := range it.Days[i].Activities {
			it.Days[i].Activities[j].normalize()
		}
	}
}

func (a *Activity) normalize() {
	a.ImageURL = clearPlaceholder(a.ImageURL, ImageURLPlaceholder)
	a.Coordinates = clearPlaceholder(a.Coordinates, CoordinatesPlaceholder)
	a.Type = ParseActivityType(string(a.Type))
}

func clearPlaceholder(v, placeholder string) string {
	v = strings.TrimSpace(v)
	if v == placeholder {
		return ""
	}
	return v
}

// ParseActivityType maps free text onto the accepted types.
func ParseActivityType(v string) ActivityType {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, t := range ActivityTypes {
		if v == string(t) {
			return t
		}
	}
	return TypeOther
}

// HasImage reports whether the activity carries a usable image URL.
func (a Activity) HasImage() bool {
	return clearPlaceholder(a.ImageURL, ImageURLPlaceholder) != ""
}

// HasCoordinates reports whether the activity carries usable coordinates.
func (a Activity) HasCoordinates() bool {
	return clearPlaceholder(a.Coordinates, CoordinatesPlaceholder) != ""
}

// MapsLink builds a Google Maps search URL from coordinates, else location.
func (a Activity) MapsLink() string {
	const base = "https://www.google.com/maps/search/?api=1&query="
	switch {
	case a.HasCoordinates():
		return base + url.QueryEscape(strings.TrimSpace(a.Coordinates))
	case strings.TrimSpace(a.Location) != "":
		return base + url.QueryEscape(strings.TrimSpace(a.Location))
	default:
		return ""
	}
}
