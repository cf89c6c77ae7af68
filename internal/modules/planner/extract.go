// README: Turns free-form model output into a schema-checked Itinerary.
package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"travelplanner/internal/modules/itinerary"
	"travelplanner/internal/modules/preference"
)

var (
	ErrNoJSON      = errors.New("no JSON object in response")
	ErrMissingDays = errors.New("response has no days array")
	ErrSchema      = errors.New("response does not match itinerary schema")
)

// stripCodeFences removes a Markdown ``` or ```json wrapper when present.
func stripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Language tag such as "json" sits on the opening fence line.
		if tag := strings.TrimSpace(s[:nl]); !strings.ContainsAny(tag, "{[") {
			s = s[nl+1:]
		}
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// extractObject returns the first JSON object embedded in text.
// The decoder path handles braces inside string values; the greedy
// first-{ to last-} slice covers trailing garbage the decoder rejects.
func extractObject(text string) ([]byte, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, ErrNoJSON
	}

	var raw json.RawMessage
	dec := json.NewDecoder(strings.NewReader(text[start:]))
	if err := dec.Decode(&raw); err == nil {
		return raw, nil
	}

	end := strings.LastIndexByte(text, '}')
	if end > start {
		candidate := text[start : end+1]
		if gjson.Valid(candidate) {
			return []byte(candidate), nil
		}
	}
	return nil, ErrNoJSON
}

// ParseItinerary extracts, decodes and validates a model response against the
// requested trip. The returned itinerary is normalized and marked as AI output.
func ParseItinerary(text string, p preference.Preference) (*itinerary.Itinerary, error) {
	raw, err := extractObject(stripCodeFences(text))
	if err != nil {
		return nil, err
	}
	if !gjson.GetBytes(raw, "days").IsArray() {
		return nil, ErrMissingDays
	}

	var it itinerary.Itinerary
	if err := json.Unmarshal(raw, &it); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := checkSchema(&it, p); err != nil {
		return nil, err
	}

	// Identity and provenance belong to this service, not the model.
	it.ID = ""
	it.SavedAt = nil
	it.UpdatedAt = nil
	it.Source = itinerary.SourceAI
	it.FallbackReason = ""

	if strings.TrimSpace(it.Destination) == "" {
		it.Destination = p.Destination
	}
	if it.StartDate == "" {
		it.StartDate = p.StartDateString()
	}
	if it.EndDate == "" {
		it.EndDate = p.EndDateString()
	}
	if it.Tips == nil {
		it.Tips = []string{}
	}
	assignActivityIDs(&it)
	it.Normalize()
	return &it, nil
}

func checkSchema(it *itinerary.Itinerary, p preference.Preference) error {
	if want := p.DayCount(); len(it.Days) != want {
		return fmt.Errorf("%w: got %d days, want %d", ErrSchema, len(it.Days), want)
	}
	for i, d := range it.Days {
		if _, err := time.Parse(preference.DateLayout, strings.TrimSpace(d.Date)); err != nil {
			return fmt.Errorf("%w: day %d has invalid date %q", ErrSchema, i, d.Date)
		}
		if len(d.Activities) == 0 {
			return fmt.Errorf("%w: day %d has no activities", ErrSchema, i)
		}
	}
	return nil
}

// assignActivityIDs gives every activity an id unique within its day.
func assignActivityIDs(it *itinerary.Itinerary) {
	for i := range it.Days {
		seen := make(map[string]bool, len(it.Days[i].Activities))
		for j := range it.Days[i].Activities {
			a := &it.Days[i].Activities[j]
			a.ID = strings.TrimSpace(a.ID)
			if a.ID == "" || seen[a.ID] {
				a.ID = fmt.Sprintf("activity-%d-%d", i, j)
			}
			seen[a.ID] = true
		}
	}
}
