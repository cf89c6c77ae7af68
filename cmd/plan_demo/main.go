// README: CLI demo; builds a trip request from flags and prints the generated itinerary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"travelplanner/internal/ai"
	"travelplanner/internal/config"
	"travelplanner/internal/maps"
	"travelplanner/internal/modules/planner"
	"travelplanner/internal/modules/preference"
)

func main() {
	dest := flag.String("destination", "Rome", "trip destination")
	start := flag.String("start", "2024-06-01", "start date (YYYY-MM-DD)")
	end := flag.String("end", "2024-06-03", "end date (YYYY-MM-DD)")
	travelers := flag.Int("travelers", 2, "number of travelers")
	interests := flag.String("interests", "History,Food", "comma-separated interests")
	budget := flag.String("budget", "", "Budget, Moderate or Luxury")
	requests := flag.String("requests", "", "additional requests")
	asJSON := flag.Bool("json", false, "print raw JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	p, res := preference.Parse(preference.Input{
		Destination:        *dest,
		StartDate:          *start,
		EndDate:            *end,
		Travelers:          *travelers,
		Interests:          splitList(*interests),
		Budget:             *budget,
		AdditionalRequests: *requests,
	})
	if !res.Valid {
		for field, msg := range res.Errors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		os.Exit(2)
	}

	ctx := context.Background()
	if cfg.AI.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.AI.Timeout)
		defer cancel()
	}

	model, closeModel, err := ai.NewProvider(ctx, cfg.AI.Provider, cfg.APIKey(), cfg.AI.Model)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer closeModel()

	var enricher planner.Enricher
	if cfg.Maps.APIKey != "" {
		if g, err := maps.NewGeocoder(cfg.Maps.APIKey); err == nil {
			enricher = g
		} else {
			log.Printf("maps disabled: %v", err)
		}
	}

	it := planner.NewGenerator(model, enricher).Generate(ctx, p)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(it)
		return
	}

	fmt.Printf("%s (%s to %s) [%s", it.Destination, it.StartDate, it.EndDate, it.Source)
	if it.FallbackReason != "" {
		fmt.Printf(": %s", it.FallbackReason)
	}
	fmt.Printf("]\n%s\n", it.Summary)
	for _, d := range it.Days {
		fmt.Printf("\n%s\n", d.Date)
		for _, a := range d.Activities {
			fmt.Printf("  %-15s %s (%s)\n", a.Time, a.Title, a.Type)
			if link := a.MapsLink(); link != "" {
				fmt.Printf("  %-15s %s\n", "", link)
			}
		}
	}
	fmt.Println("\nTips:")
	for _, tip := range it.Tips {
		fmt.Printf("  - %s\n", tip)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
