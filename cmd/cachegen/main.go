package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"econfetch/internal/cache"
	"econfetch/internal/config"
	"econfetch/internal/fetcher"
	"econfetch/internal/model"
	"econfetch/internal/registry"
	"econfetch/internal/source"
)

// cachegen refreshes the cache artifacts by fetching every dataset live
// and writing each one in its registered format. With an s3 section in
// the config it also uploads the artifacts to the bucket.
func main() {
	var (
		configPath = flag.String("config", "", "path to TOML config file")
		only       = flag.String("dataset", "", "refresh a single dataset instead of all")
		quiet      = flag.Bool("quiet", false, "suppress progress output")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	reg := registry.Default()
	client := source.NewClient(cfg.ClientConfig())
	adapters := source.DefaultAdapters(client)
	entries := cache.Entries(reg)

	// Live-only orchestrator: the cache is what we are producing.
	orch := fetcher.New(reg, cache.NewFileStore(cfg.CacheDir, entries), adapters, fetcher.Config{
		Policy:  cfg.RetryPolicy(),
		Workers: cfg.Fetch.Workers,
	})

	var s3 *cache.S3Store
	if cfg.UseS3() {
		s3, err = cache.NewS3Store(cfg.S3CacheConfig(), entries)
		if err != nil {
			fatal(err)
		}
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		fatal(err)
	}

	names := reg.Names()
	if *only != "" {
		names = []string{*only}
	}

	ctx := context.Background()
	failed := 0
	for _, name := range names {
		ds, ok := reg.Get(name)
		if !ok {
			fatal(fmt.Errorf("unknown dataset %q", name))
		}
		if err := refresh(ctx, orch, ds, cfg.CacheDir, s3, *quiet); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %s: %v\n", name, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func refresh(ctx context.Context, orch *fetcher.Orchestrator, ds *registry.Dataset, dir string, s3 *cache.S3Store, quiet bool) error {
	result, err := orch.Fetch(ctx, model.DatasetRequest{
		Dataset:  ds.Name,
		UseCache: false,
		Quiet:    quiet,
	})
	if err != nil {
		return err
	}

	path := filepath.Join(dir, ds.Cache.Object)
	var contentType string

	switch ds.Cache.Format {
	case registry.FormatCSV:
		var buf bytes.Buffer
		if err := cache.EncodeCSV(&buf, result.Table); err != nil {
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return err
		}
		contentType = "text/csv"
	case registry.FormatParquet:
		if err := cache.WriteParquet(path, result.Table); err != nil {
			return err
		}
		contentType = "application/octet-stream"
	default:
		return fmt.Errorf("unknown cache format %q", ds.Cache.Format)
	}

	if !quiet {
		fmt.Printf("💾 %s: %d rows -> %s\n", ds.Name, result.Table.Len(), path)
	}

	if s3 != nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := s3.Upload(ctx, ds.Cache.Name, data, contentType); err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("☁️ uploaded %s (%d bytes)\n", ds.Cache.Object, len(data))
		}
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "❌", err)
	os.Exit(1)
}
