package scores

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every backend name.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend" env:"BACKEND"`

	// Path is the JSON file (file) or database file (sqlite).
	Path string `toml:"path" env:"PATH"`

	RedisAddr     string `toml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db" env:"REDIS_DB"`
	RedisKey      string `toml:"redis_key" env:"REDIS_KEY"`

	MongoURI        string `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase   string `toml:"mongo_database" env:"MONGO_DATABASE"`
	MongoCollection string `toml:"mongo_collection" env:"MONGO_COLLECTION"`
}

// Open creates the store selected by cfg.Backend. An empty backend means
// file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		s, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		addr := cfg.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		s, err := NewRedisStore(ctx, &redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.RedisKey)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		s, err := NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidBackend, "unknown scores backend %q (want one of %s)",
			cfg.Backend, strings.Join(Backends, ", "))
	}
}

// instrumented reports store events to hooks.
type instrumented struct {
	Store
	backend string
	hooks   observability.StoreHooks
}

// Instrument wraps s so successful adds and failures are reported to h.
func Instrument(s Store, backend string, h observability.StoreHooks) Store {
	if h == nil {
		return s
	}
	return &instrumented{Store: s, backend: backend, hooks: h}
}

func (i *instrumented) Add(ctx context.Context, e Entry) error {
	if err := i.Store.Add(ctx, e); err != nil {
		i.hooks.OnStoreError(ctx, i.backend, "add", err)
		return err
	}
	i.hooks.OnScoreSaved(ctx, i.backend, e.Score)
	return nil
}

func (i *instrumented) Top(ctx context.Context, n int) ([]Entry, error) {
	es, err := i.Store.Top(ctx, n)
	if err != nil {
		i.hooks.OnStoreError(ctx, i.backend, "top", err)
	}
	return es, err
}

func (i *instrumented) Clear(ctx context.Context) error {
	err := i.Store.Clear(ctx)
	if err != nil {
		i.hooks.OnStoreError(ctx, i.backend, "clear", err)
	}
	return err
}
