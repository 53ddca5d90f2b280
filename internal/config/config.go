package config

import (
	"fmt"
	"time"

	"econfetch/internal/cache"
	"econfetch/internal/fetcher"
	"econfetch/internal/source"

	"github.com/BurntSushi/toml"
)

// FetchSettings tune the retry policy and worker pool.
type FetchSettings struct {
	MaxRetries   int     `toml:"max_retries"`
	RetryDelayMS int     `toml:"retry_delay_ms"`
	ItemDelayMS  int     `toml:"item_delay_ms"`
	Workers      int     `toml:"workers"`
	RateLimit    float64 `toml:"rate_limit"`
	RateBurst    int     `toml:"rate_burst"`
}

// S3Settings locate the remote cache bucket. An empty endpoint selects
// the local file cache instead.
type S3Settings struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

// Config is the service/CLI configuration, loaded from a TOML file over
// defaults.
type Config struct {
	ListenAddr string        `toml:"listen_addr"`
	DBPath     string        `toml:"db_path"`
	CacheDir   string        `toml:"cache_dir"`
	S3         S3Settings    `toml:"s3"`
	Fetch      FetchSettings `toml:"fetch"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		DBPath:     "econfetch.db",
		CacheDir:   "cache",
		Fetch: FetchSettings{
			MaxRetries:   3,
			RetryDelayMS: 500,
			ItemDelayMS:  1000,
			Workers:      1,
			RateLimit:    5.0,
			RateBurst:    2,
		},
	}
}

// Load overlays the TOML file at path onto the defaults. An empty path
// returns the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.Fetch.MaxRetries < 1 {
		return Config{}, fmt.Errorf("load config %s: fetch.max_retries must be >= 1", path)
	}
	if cfg.Fetch.Workers < 1 {
		return Config{}, fmt.Errorf("load config %s: fetch.workers must be >= 1", path)
	}
	return cfg, nil
}

// UseS3 reports whether the remote cache bucket is configured.
func (c Config) UseS3() bool { return c.S3.Endpoint != "" }

// RetryPolicy builds the fetch retry policy from the settings.
func (c Config) RetryPolicy() fetcher.RetryPolicy {
	return fetcher.RetryPolicy{
		MaxAttempts: c.Fetch.MaxRetries,
		RetryDelay:  time.Duration(c.Fetch.RetryDelayMS) * time.Millisecond,
		ItemDelay:   time.Duration(c.Fetch.ItemDelayMS) * time.Millisecond,
	}
}

// ClientConfig builds the upstream HTTP client settings.
func (c Config) ClientConfig() source.ClientConfig {
	cc := source.DefaultClientConfig()
	cc.RateLimit = c.Fetch.RateLimit
	cc.RateBurst = c.Fetch.RateBurst
	return cc
}

// S3CacheConfig builds the remote cache store settings.
func (c Config) S3CacheConfig() cache.S3Config {
	return cache.S3Config{
		Endpoint:  c.S3.Endpoint,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
		Bucket:    c.S3.Bucket,
		UseSSL:    c.S3.UseSSL,
	}
}
