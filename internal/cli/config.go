package cli

import (
	"errors"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/pipeline"
)

// Config is the contents of the TOML config file.
//
//	[analysis]
//	samples = 1000
//	seed = 24680
//	comparisons = ["ca-HepPh.txt"]
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Analysis pipeline.Options `toml:"analysis"`
	Cache    CacheConfig      `toml:"cache"`
	Store    StoreConfig      `toml:"store"`
	Server   ServerConfig     `toml:"server"`
}

// CacheConfig selects the sample cache. Without a Redis URL the file cache
// in Dir (default: the XDG cache directory) is used. A Namespace prefixes
// every key so several datasets can share one Redis.
type CacheConfig struct {
	Dir       string `toml:"dir"`
	RedisURL  string `toml:"redis_url"`
	Namespace string `toml:"namespace"`
	Disabled  bool   `toml:"disabled"`
}

// StoreConfig selects the report store. Without a MongoDB URI reports are
// kept as files in Dir (default: the XDG data directory).
type StoreConfig struct {
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	MaxSamples     int           `toml:"max_samples"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Analysis: pipeline.Options{Seed: pipeline.DefaultSeed},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig decodes the TOML file at path over [DefaultConfig]. A missing
// file is an error only when required is set. Unknown keys are rejected.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return DefaultConfig(), nil
		}
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Analysis.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
