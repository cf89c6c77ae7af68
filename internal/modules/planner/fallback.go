package planner

import (
	"fmt"
	"strings"

	"travelplanner/internal/modules/itinerary"
	"travelplanner/internal/modules/preference"
)

// HighDemandTip is always the first fallback tip; it tells the traveler the
// personalised path was not used.
const HighDemandTip = "We're experiencing high demand. Please try again later for a more personalized itinerary."

var fallbackTips = []string{
	HighDemandTip,
	"Research local transportation options before your trip.",
	"Check local health and safety guidelines before traveling.",
	"Consider booking accommodations and tours in advance.",
}

type slot struct {
	name        string
	time        string
	title       string
	location    string
	description string
	kind        itinerary.ActivityType
}

// daySlots is the fixed daily plan. {dest} is replaced by the destination.
var daySlots = []slot{
	{"morning", "09:00 - 12:00", "Morning activity in {dest}", "{dest} city center",
		"Explore the local attractions in {dest}.", itinerary.TypeAttraction},
	{"lunch", "12:30 - 14:00", "Lunch at local restaurant", "{dest} dining district",
		"Enjoy local cuisine at a popular restaurant in {dest}.", itinerary.TypeRestaurant},
	{"afternoon", "14:30 - 17:30", "Afternoon activity in {dest}", "{dest} points of interest",
		"Visit popular landmarks and attractions around {dest}.", itinerary.TypeAttraction},
	{"dinner", "19:00 - 21:00", "Dinner experience", "{dest} evening venue",
		"Experience local dining in {dest} in a beautiful setting.", itinerary.TypeRestaurant},
}

// Fallback builds a schema-valid itinerary without any external call.
// The result depends only on the preference.
func Fallback(p preference.Preference) *itinerary.Itinerary {
	dayCount := p.DayCount()
	days := make([]itinerary.Day, dayCount)
	for i := range days {
		acts := make([]itinerary.Activity, len(daySlots))
		for j, s := range daySlots {
			acts[j] = itinerary.Activity{
				ID:          fmt.Sprintf("%s-%d", s.name, i),
				Time:        s.time,
				Title:       fill(s.title, p.Destination),
				Location:    fill(s.location, p.Destination),
				Description: fill(s.description, p.Destination),
				Type:        s.kind,
			}
		}
		days[i] = itinerary.Day{Date: p.Date(i), Activities: acts}
	}

	summary := fmt.Sprintf("Your %d-day trip to %s.", dayCount, p.Destination)
	if len(p.Interests) > 0 {
		summary = fmt.Sprintf("Your %d-day trip to %s with focus on %s.",
			dayCount, p.Destination, strings.Join(p.InterestNames(), ", "))
	}

	return &itinerary.Itinerary{
		Destination: p.Destination,
		StartDate:   p.StartDateString(),
		EndDate:     p.EndDateString(),
		Summary:     summary,
		Tips:        append([]string(nil), fallbackTips...),
		Days:        days,
		Source:      itinerary.SourceFallback,
	}
}

func fill(template, destination string) string {
	return strings.ReplaceAll(template, "{dest}", destination)
}
