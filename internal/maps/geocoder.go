package maps

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"googlemaps.github.io/maps"

	"travelplanner/internal/modules/itinerary"
	"travelplanner/internal/types"
)

// DefaultMaxLookups bounds the geocoding calls spent on one itinerary.
const DefaultMaxLookups = 40

var errNoResult = errors.New("no geocoding result")

// Geocoder fills missing activity coordinates using the Google Geocoding API.
type Geocoder struct {
	lookup     func(ctx context.Context, address string) (types.Point, error)
	maxLookups int
}

// NewGeocoder creates a Geocoder with the given API Key.
func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{
		lookup: func(ctx context.Context, address string) (types.Point, error) {
			results, err := client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
			if err != nil {
				return types.Point{}, fmt.Errorf("maps api error: %w", err)
			}
			if len(results) == 0 {
				return types.Point{}, errNoResult
			}
			loc := results[0].Geometry.Location
			return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
		},
		maxLookups: DefaultMaxLookups,
	}, nil
}

// Enrich geocodes "<location>, <destination>" for every activity without coordinates.
// Failures are logged and the activity is left as it was.
func (g *Geocoder) Enrich(ctx context.Context, it *itinerary.Itinerary) {
	cache := map[string]string{}
	lookups := 0
	for i := range it.Days {
		for j := range it.Days[i].Activities {
			a := &it.Days[i].Activities[j]
			if a.HasCoordinates() || strings.TrimSpace(a.Location) == "" {
				continue
			}
			address := queryFor(a.Location, it.Destination)
			if coords, ok := cache[address]; ok {
				a.Coordinates = coords
				continue
			}
			if lookups >= g.maxLookups {
				return
			}
			lookups++
			p, err := g.lookup(ctx, address)
			if err != nil {
				log.Printf("geocoder: %q: %v", address, err)
				cache[address] = ""
				continue
			}
			cache[address] = p.String()
			a.Coordinates = cache[address]
		}
	}
}

func queryFor(location, destination string) string {
	location = strings.TrimSpace(location)
	destination = strings.TrimSpace(destination)
	if destination == "" || strings.Contains(strings.ToLower(location), strings.ToLower(destination)) {
		return location
	}
	return location + ", " + destination
}
