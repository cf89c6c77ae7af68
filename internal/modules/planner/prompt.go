// README: Prompt construction for itinerary generation (instructions + response schema).
package planner

import (
	"fmt"
	"strings"

	"travelplanner/internal/modules/itinerary"
	"travelplanner/internal/modules/preference"
)

// Prompt is the opaque instruction sent to the generation service.
type Prompt struct {
	Text string
}

var budgetWording = map[preference.Budget]string{
	preference.BudgetLow:      "They are travelling on a tight budget (under $100 per day).",
	preference.BudgetModerate: "They have a moderate budget ($100-$300 per day).",
	preference.BudgetLuxury:   "They have a luxury budget ($300+ per day).",
}

// BuildPrompt renders the generation prompt for a validated preference. It cannot fail.
func BuildPrompt(p preference.Preference) Prompt {
	dayCount := p.DayCount()
	start, end := p.StartDateString(), p.EndDateString()

	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed %d-day itinerary for %d %s visiting %s from %s to %s.\n",
		dayCount, p.Travelers, plural(p.Travelers, "traveler", "travelers"), p.Destination, start, end)

	if len(p.Interests) > 0 {
		fmt.Fprintf(&b, "The travelers are particularly interested in: %s.\n", strings.Join(p.InterestNames(), ", "))
	}

	budget, ok := budgetWording[p.Budget]
	if !ok {
		budget = budgetWording[preference.BudgetModerate]
	}
	b.WriteString(budget + "\n")

	if p.AdditionalRequests != "" {
		fmt.Fprintf(&b, "Additional special requests: %s\n", p.AdditionalRequests)
	}

	fmt.Fprintf(&b, `
Include a variety of activities, restaurants, and attractions that match their interests.
Each day needs morning, afternoon, and evening activities with specific locations, estimated times, and brief descriptions.
Include at least 4-5 activities per day including meals, and exactly %d entries in "days", one per date from %s to %s.

Format your response as a JSON object with the following structure:
{
  "destination": %q,
  "startDate": %q,
  "endDate": %q,
  "summary": "A brief summary of the trip",
  "tips": ["tip1", "tip2", "tip3", "tip4"],
  "days": [
    {
      "date": "YYYY-MM-DD",
      "activities": [
        {
          "id": "unique-id-within-the-day",
          "time": "HH:MM - HH:MM",
          "title": "Activity name",
          "location": "Location details",
          "description": "Brief description",
          "type": "%s",
          "imageUrl": %q,
          "coordinates": %q
        }
      ]
    }
  ]
}

Make sure the activities are appropriate for %s.
For each activity, try to include a publicly accessible image URL (stock photos, official websites, etc.).
Include exact coordinates as "latitude,longitude" when known.
The response should ONLY contain the JSON object with no additional explanation or text.
`,
		dayCount, start, end,
		p.Destination, start, end,
		activityTypeChoices(),
		itinerary.ImageURLPlaceholder, itinerary.CoordinatesPlaceholder,
		p.Destination,
	)

	return Prompt{Text: b.String()}
}

func activityTypeChoices() string {
	names := make([]string, len(itinerary.ActivityTypes))
	for i, t := range itinerary.ActivityTypes {
		names[i] = string(t)
	}
	return strings.Join(names, " | ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
