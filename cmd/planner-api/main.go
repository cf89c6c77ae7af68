// README: Entry point; loads config, wires stores and generator, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"travelplanner/internal/ai"
	"travelplanner/internal/config"
	httptransport "travelplanner/internal/http"
	"travelplanner/internal/infra"
	"travelplanner/internal/maps"
	"travelplanner/internal/modules/account"
	"travelplanner/internal/modules/aiusage"
	"travelplanner/internal/modules/itinerary"
	"travelplanner/internal/modules/planner"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var dbPool *pgxpool.Pool
	var medium itinerary.Medium
	switch cfg.Store.Driver {
	case config.StorePostgres:
		dbPool, err = infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer dbPool.Close()
		medium = itinerary.NewPostgresMedium(dbPool)
	case config.StoreRedis:
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal(err)
		}
		defer redisClient.Close()
		medium = itinerary.NewRedisMedium(redisClient)
	default:
		medium = itinerary.NewMemoryMedium()
	}
	store := itinerary.NewStore(medium, cfg.Store.Key)

	var usageStore aiusage.Store = aiusage.NewMemoryStore(cfg.AI.MonthlyTokens)
	if dbPool != nil {
		usageStore = aiusage.NewPGStore(dbPool, cfg.AI.MonthlyTokens)
	}
	usageSvc := aiusage.NewService(usageStore)

	model, closeModel, err := ai.NewProvider(ctx, cfg.AI.Provider, cfg.APIKey(), cfg.AI.Model)
	if err != nil {
		log.Fatalf("ai provider init: %v", err)
	}
	defer closeModel()
	if model == nil {
		log.Printf("no API key for %s; itineraries use the deterministic builder", cfg.AI.Provider)
	}

	var enricher planner.Enricher
	if cfg.Maps.APIKey != "" {
		geocoder, err := maps.NewGeocoder(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		enricher = geocoder
	}

	plannerSvc := planner.NewService(planner.NewGenerator(model, enricher), usageSvc, store)

	tokens := account.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	accounts := account.NewService(account.NewMemoryRepository(), tokens)
	if cfg.Auth.SeedDemoUser {
		if err := accounts.SeedDemo(ctx); err != nil {
			log.Fatalf("seed demo user: %v", err)
		}
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Planner:   plannerSvc,
		Itinerary: store,
		Accounts:  accounts,
		Verifier:  tokens,
		AITimeout: cfg.AI.Timeout,
		PerMinute: cfg.RateLimit.GeneratePerMinute,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("planner-api listening on %s (store=%s, provider=%s)", cfg.HTTP.Addr, cfg.Store.Driver, cfg.AI.Provider)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
