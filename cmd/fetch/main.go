package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"econfetch/internal/cache"
	"econfetch/internal/config"
	"econfetch/internal/fetcher"
	"econfetch/internal/model"
	"econfetch/internal/registry"
	"econfetch/internal/source"
	"econfetch/pkg/utils"
)

func main() {
	var (
		dataset    = flag.String("dataset", "", "dataset to fetch (see -list)")
		category   = flag.String("category", "all", "item category within the dataset")
		start      = flag.String("start", "", "start date YYYY-MM-DD")
		end        = flag.String("end", "", "end date YYYY-MM-DD")
		useCache   = flag.Bool("cache", true, "serve from cache when available")
		quiet      = flag.Bool("quiet", false, "suppress progress output")
		retries    = flag.Int("retries", 0, "max attempts per item (0 = config default)")
		configPath = flag.String("config", "", "path to TOML config file")
		out        = flag.String("out", "", "write result as CSV to this file (default stdout summary)")
		list       = flag.Bool("list", false, "list datasets and exit")
	)
	flag.Parse()

	reg := registry.Default()

	if *list {
		for _, name := range reg.Names() {
			ds, _ := reg.Get(name)
			fmt.Printf("%-16s %s (categories: %v)\n", ds.Name, ds.Description, ds.Categories())
		}
		return
	}
	if *dataset == "" {
		fatal(fmt.Errorf("-dataset is required, try -list"))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	startDate, err := utils.ParseDate(*start)
	if err != nil {
		fatal(fmt.Errorf("invalid -start: %w", err))
	}
	endDate, err := utils.ParseDate(*end)
	if err != nil {
		fatal(fmt.Errorf("invalid -end: %w", err))
	}

	maxRetries := *retries
	if maxRetries == 0 {
		maxRetries = cfg.Fetch.MaxRetries
	}

	client := source.NewClient(cfg.ClientConfig())
	adapters := source.DefaultAdapters(client)
	entries := cache.Entries(reg)

	var store cache.Store
	if cfg.UseS3() {
		store, err = cache.NewS3Store(cfg.S3CacheConfig(), entries)
		if err != nil {
			fatal(err)
		}
	} else {
		store = cache.NewFileStore(cfg.CacheDir, entries)
	}

	orch := fetcher.New(reg, store, adapters, fetcher.Config{
		Policy:  cfg.RetryPolicy(),
		Workers: cfg.Fetch.Workers,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := orch.Fetch(ctx, model.DatasetRequest{
		Dataset:    *dataset,
		Category:   *category,
		Range:      model.DateRange{Start: startDate, End: endDate},
		UseCache:   *useCache,
		Quiet:      *quiet,
		MaxRetries: maxRetries,
	})
	if err != nil {
		fatal(err)
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		if err := cache.EncodeCSV(f, result.Table); err != nil {
			fatal(err)
		}
		fmt.Printf("💾 wrote %d rows to %s (origin: %s)\n", result.Table.Len(), *out, result.Provenance.Origin)
		return
	}

	fmt.Printf("📊 %s: %d rows, %d item(s), origin %s\n",
		result.Provenance.Dataset, result.Table.Len(), len(result.Table.ItemIDs()), result.Provenance.Origin)
	for _, outcome := range result.Provenance.Skipped() {
		fmt.Printf("   skipped %s: %s\n", outcome.ItemID, outcome.Status)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "❌", err)
	os.Exit(1)
}
