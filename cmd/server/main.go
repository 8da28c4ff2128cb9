package main

import (
	"fmt"
	"log"
	"os"

	"github.com/recipecart/backend/config"
	httpDelivery "github.com/recipecart/backend/internal/delivery/http"
	"github.com/recipecart/backend/internal/infrastructure/cache"
	"github.com/recipecart/backend/internal/infrastructure/picnic"
	"github.com/recipecart/backend/internal/infrastructure/session"
	"github.com/recipecart/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting RecipeCart Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Vendor gateway: %s", cfg.Gateway.BaseURL)

	// Infrastructure
	searchCache := cache.NewMemoryCache()
	sessionStore := session.NewStore(cfg.Session.TTL)

	gateway := picnic.NewClient(
		cfg.Gateway.BaseURL,
		cfg.Gateway.Timeout,
		cfg.Gateway.RequestsPerSecond,
		cfg.Gateway.Burst,
	)
	if cfg.Server.Environment == "development" {
		gateway.SetDebug(true)
		log.Printf("Gateway client debug mode enabled")
	}

	// Usecase layer
	extractor := usecase.NewIngredientExtractor(usecase.ExtractorConfig{
		ExtraUnits: cfg.Extractor.ExtraUnits,
		Synonyms:   cfg.Extractor.Synonyms,
		Debug:      cfg.Matching.Debug,
	})
	matcher := usecase.NewCatalogMatcher(gateway, searchCache, usecase.MatcherConfig{
		MaxCandidates: cfg.Matching.MaxCandidates,
		CacheTTL:      cfg.Cache.TTL,
		Debug:         cfg.Matching.Debug,
	})
	resolver := usecase.NewResolutionService(extractor, matcher, gateway, sessionStore, usecase.ResolverConfig{
		Concurrency:  cfg.Matching.Concurrency,
		MatchTimeout: cfg.Matching.MatchTimeout,
		Debug:        cfg.Matching.Debug,
	})

	log.Printf("Matching: candidates=%d, concurrency=%d, timeout=%s, debug=%v",
		cfg.Matching.MaxCandidates,
		cfg.Matching.Concurrency,
		cfg.Matching.MatchTimeout,
		cfg.Matching.Debug)

	handler := httpDelivery.NewHandler(resolver)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
