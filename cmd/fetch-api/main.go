package main

import (
	"flag"
	"os"

	"econfetch/internal/api"
	"econfetch/internal/api/handler"
	"econfetch/internal/cache"
	"econfetch/internal/config"
	"econfetch/internal/fetcher"
	"econfetch/internal/registry"
	"econfetch/internal/source"
	"econfetch/internal/store"
	"econfetch/pkg/router"

	"github.com/rs/zerolog"
)

// @title econfetch API
// @version 1.0
// @description Fetch macroeconomic and real-estate datasets with cache fallback and retry
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	if err := store.InitDB(cfg.DBPath); err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("init database")
	}

	reg := registry.Default()
	client := source.NewClient(cfg.ClientConfig())
	adapters := source.DefaultAdapters(client)
	entries := cache.Entries(reg)

	var cacheStore cache.Store
	if cfg.UseS3() {
		cacheStore, err = cache.NewS3Store(cfg.S3CacheConfig(), entries)
		if err != nil {
			log.Fatal().Err(err).Msg("init s3 cache")
		}
		log.Info().Str("endpoint", cfg.S3.Endpoint).Str("bucket", cfg.S3.Bucket).Msg("using s3 cache")
	} else {
		cacheStore = cache.NewFileStore(cfg.CacheDir, entries)
		log.Info().Str("dir", cfg.CacheDir).Msg("using file cache")
	}

	orch := fetcher.New(reg, cacheStore, adapters, fetcher.Config{
		Policy:  cfg.RetryPolicy(),
		Workers: cfg.Fetch.Workers,
	})

	h := &handler.Handler{Orchestrator: orch, Registry: reg}

	r := router.New(log)
	api.RegisterRoutes(r, h)

	if err := r.Start(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
