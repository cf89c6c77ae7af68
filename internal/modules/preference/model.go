// README: Trip request model (destination, dates, travelers, interests, budget).
package preference

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for every date on the wire.
const DateLayout = "2006-01-02"

// MaxTripDays caps the inclusive length of a single trip.
const MaxTripDays = 30

const secondsPerDay = 24 * 60 * 60

type Interest string

const (
	InterestCulture    Interest = "Culture"
	InterestNature     Interest = "Nature"
	InterestFood       Interest = "Food"
	InterestAdventure  Interest = "Adventure"
	InterestRelaxation Interest = "Relaxation"
	InterestShopping   Interest = "Shopping"
	InterestNightlife  Interest = "Nightlife"
	InterestHistory    Interest = "History"
)

// Interests is the fixed vocabulary, in display order.
var Interests = []Interest{
	InterestCulture, InterestNature, InterestFood, InterestAdventure,
	InterestRelaxation, InterestShopping, InterestNightlife, InterestHistory,
}

type Budget string

const (
	BudgetUnset    Budget = ""
	BudgetLow      Budget = "Budget"
	BudgetModerate Budget = "Moderate"
	BudgetLuxury   Budget = "Luxury"
)

// Destinations is the suggestion set offered while typing a destination.
var Destinations = []string{"Paris", "Tokyo", "New York City", "Rome", "Barcelona", "London", "Sydney", "Dubai"}

// Input is the raw trip request as submitted by a client.
type Input struct {
	Destination        string   `json:"destination"`
	StartDate          string   `json:"startDate"`
	EndDate            string   `json:"endDate"`
	Travelers          int      `json:"travelers"`
	Interests          []string `json:"interests"`
	Budget             string   `json:"budget"`
	AdditionalRequests string   `json:"additionalRequests"`
}

// Preference is a validated trip request. Dates are UTC midnights.
type Preference struct {
	Destination        string
	StartDate          time.Time
	EndDate            time.Time
	Travelers          int
	Interests          []Interest
	Budget             Budget
	AdditionalRequests string
}

// DayCount is the inclusive number of days in the trip, never less than one.
// Computed over Unix seconds; exact for any span.
func DayCount(start, end time.Time) int {
	secs := end.Unix() - start.Unix()
	if secs < 0 {
		return 1
	}
	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 {
		days++
	}
	return int(days) + 1
}

func (p Preference) DayCount() int {
	return DayCount(p.StartDate, p.EndDate)
}

// Date returns the ISO date of the i-th trip day (0-based).
func (p Preference) Date(i int) string {
	return p.StartDate.AddDate(0, 0, i).Format(DateLayout)
}

func (p Preference) StartDateString() string { return p.StartDate.Format(DateLayout) }

func (p Preference) EndDateString() string { return p.EndDate.Format(DateLayout) }

// InterestNames returns the interests as plain strings.
func (p Preference) InterestNames() []string {
	out := make([]string, len(p.Interests))
	for i, in := range p.Interests {
		out[i] = string(in)
	}
	return out
}

// Suggestions filters the destination suggestion set by a case-insensitive substring.
func Suggestions(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0, len(Destinations))
	for _, d := range Destinations {
		if q == "" || strings.Contains(strings.ToLower(d), q) {
			out = append(out, d)
		}
	}
	return out
}

func lookupInterest(v string) (Interest, bool) {
	for _, in := range Interests {
		if strings.EqualFold(string(in), strings.TrimSpace(v)) {
			return in, true
		}
	}
	return "", false
}

func lookupBudget(v string) (Budget, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return BudgetUnset, true
	}
	for _, b := range []Budget{BudgetLow, BudgetModerate, BudgetLuxury} {
		if strings.EqualFold(string(b), v) {
			return b, true
		}
	}
	return "", false
}
