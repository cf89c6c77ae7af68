// README: Trip request validation; every rule runs and all field errors are collected.
package preference

import (
	"fmt"
	"strings"
	"time"
)

// Field keys used in Result.Errors.
const (
	FieldDestination = "destination"
	FieldStartDate   = "startDate"
	FieldEndDate     = "endDate"
	FieldTravelers   = "travelers"
	FieldInterests   = "interests"
	FieldBudget      = "budget"
)

// Result reports validation outcome as data; it is never returned as an error.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Validate checks a raw request. It has no side effects.
func Validate(in Input) Result {
	_, res := Parse(in)
	return res
}

// Parse validates the request and, when valid, returns the parsed Preference.
func Parse(in Input) (Preference, Result) {
	errs := map[string]string{}

	destination := strings.TrimSpace(in.Destination)
	if destination == "" {
		errs[FieldDestination] = "Destination is required"
	}

	start, startOK := parseDate(in.StartDate, FieldStartDate, "Start date", errs)
	end, endOK := parseDate(in.EndDate, FieldEndDate, "End date", errs)
	switch {
	case !startOK || !endOK:
	case end.Before(start):
		errs[FieldEndDate] = "End date must be after start date"
	case DayCount(start, end) > MaxTripDays:
		errs[FieldEndDate] = fmt.Sprintf("Trips are limited to %d days", MaxTripDays)
	}

	if in.Travelers < 1 {
		errs[FieldTravelers] = "At least 1 traveler is required"
	}

	interests, unknown := parseInterests(in.Interests)
	switch {
	case len(unknown) > 0:
		errs[FieldInterests] = fmt.Sprintf("Unknown interest(s): %s", strings.Join(unknown, ", "))
	case len(interests) == 0:
		errs[FieldInterests] = "Select at least one interest"
	}

	budget, ok := lookupBudget(in.Budget)
	if !ok {
		errs[FieldBudget] = "Budget must be one of Budget, Moderate, Luxury"
	}

	if len(errs) > 0 {
		return Preference{}, Result{Valid: false, Errors: errs}
	}
	return Preference{
		Destination:        destination,
		StartDate:          start,
		EndDate:            end,
		Travelers:          in.Travelers,
		Interests:          interests,
		Budget:             budget,
		AdditionalRequests: strings.TrimSpace(in.AdditionalRequests),
	}, Result{Valid: true, Errors: errs}
}

func parseDate(raw, field, label string, errs map[string]string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs[field] = label + " is required"
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		errs[field] = label + " must be a valid date (YYYY-MM-DD)"
		return time.Time{}, false
	}
	return t, true
}

// parseInterests canonicalises and de-duplicates interests, keeping first-seen order.
func parseInterests(raw []string) ([]Interest, []string) {
	var out []Interest
	var unknown []string
	seen := map[Interest]bool{}
	for _, v := range raw {
		in, ok := lookupInterest(v)
		if !ok {
			unknown = append(unknown, v)
			continue
		}
		if seen[in] {
			continue
		}
		seen[in] = true
		out = append(out, in)
	}
	return out, unknown
}
