package jsonregister

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	regerrors "github.com/telicent-oss/go-json-register/errors"
	"github.com/telicent-oss/go-json-register/internal/lru"
	"github.com/telicent-oss/go-json-register/internal/store"
	"github.com/telicent-oss/go-json-register/jsonval"
)

// Store is the gateway contract the Registrar depends on. The production
// implementation is the SQL gateway built from Config; tests and custom
// backends can substitute their own via WithStore.
type Store interface {
	// GetOrInsert atomically returns the id for the canonical value,
	// inserting a new row if absent. Safe under concurrent callers
	// registering the same value: first writer wins, losers observe the
	// winner's id.
	GetOrInsert(ctx context.Context, canonical string) (int64, error)

	// GetOrInsertBatch applies the same semantics to an ordered batch,
	// returning one id per input in input order, duplicates resolving to
	// the same id.
	GetOrInsertBatch(ctx context.Context, canonicals []string) ([]int64, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close releases the gateway's resources. Must be idempotent.
	Close() error
}

// Registrar assigns stable integer ids to JSON values. It owns a bounded
// LRU cache keyed by canonical encoding and a store gateway; the store is
// authoritative, the cache is a lossy accelerant.
//
// All methods are safe for concurrent use.
type Registrar struct {
	cfg    Config
	log    *slog.Logger
	cache  *lru.Cache[int64]
	store  Store
	closer sync.Once
	closed error
}

// New validates the configuration, opens the store gateway, and constructs
// the Registrar. Validation failures surface as ConfigurationError before
// any connection is attempted; pool creation or ping failures surface as
// ConnectionError.
func New(ctx context.Context, cfg Config, opts ...Option) (*Registrar, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o registrarOptions
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("registrar", uuid.NewString())

	var cacheOpts []lru.Option
	if o.registerer != nil {
		cacheOpts = append(cacheOpts, lru.WithMetrics(o.registerer, "registrar"))
	}
	cache, err := lru.New[int64](cfg.CacheSize, cacheOpts...)
	if err != nil {
		return nil, regerrors.NewConfigurationError("metrics", err.Error())
	}

	gateway := o.store
	if gateway == nil {
		gateway, err = store.Open(ctx, store.Config{
			Driver:      cfg.Driver,
			DSN:         cfg.dsn(),
			Table:       cfg.TableName,
			IDColumn:    cfg.IDColumn,
			ValueColumn: cfg.ValueColumn,
			PoolSize:    cfg.PoolSize,
		})
		if err != nil {
			return nil, err
		}
	}

	logger.Info("registrar ready",
		"driver", cfg.Driver,
		"table", cfg.TableName,
		"cache_size", cfg.CacheSize,
		"pool_size", cfg.PoolSize,
	)

	return &Registrar{
		cfg:   cfg,
		log:   logger,
		cache: cache,
		store: gateway,
	}, nil
}

// RegisterObject returns the id for a single JSON value, registering it in
// the store if it has never been seen. Semantically identical values (same
// canonical encoding) always return the same id.
//
// Errors: CanonicalisationError for invalid or cyclic values,
// ConnectionError for store failures. The cache is only mutated after the
// store call fully succeeds.
func (r *Registrar) RegisterObject(ctx context.Context, value jsonval.Value) (int64, error) {
	key, err := jsonval.Canonicalise(value)
	if err != nil {
		return 0, err
	}

	if id, ok := r.cache.Get(key); ok {
		return id, nil
	}

	id, err := r.store.GetOrInsert(ctx, key)
	if err != nil {
		return 0, err
	}

	r.cache.Put(key, id)
	return id, nil
}

// RegisterBatchObjects returns one id per input value, in input order, with
// duplicate inputs resolving to the same id. A batch whose every value is
// already cached is served without a store round trip; otherwise the whole
// batch goes to the store in a single call, and every resolved pair is
// written back to the cache regardless of whether the store hit or
// inserted.
//
// The batch either fully succeeds with a result exactly as long as the
// input, or fails entirely; a store response of any other length is an
// InvalidResponseError.
func (r *Registrar) RegisterBatchObjects(ctx context.Context, values []jsonval.Value) ([]int64, error) {
	if len(values) == 0 {
		return []int64{}, nil
	}

	keys := make([]string, len(values))
	for i, value := range values {
		key, err := jsonval.Canonicalise(value)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}

	if ids, ok := r.cache.GetAll(keys); ok {
		return ids, nil
	}

	ids, err := r.store.GetOrInsertBatch(ctx, keys)
	if err != nil {
		return nil, err
	}
	// The SQL gateway enforces this itself; re-checking here keeps the
	// contract intact for stores substituted via WithStore.
	if len(ids) != len(keys) {
		return nil, &regerrors.InvalidResponseError{
			Expected: len(keys),
			Got:      len(ids),
			Reason:   "batch register",
		}
	}

	for i, key := range keys {
		r.cache.Put(key, ids[i])
	}

	r.log.Debug("batch registered", "values", len(values))
	return ids, nil
}

// Ping verifies the store is reachable.
func (r *Registrar) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// EnsureSchema creates the registration table if the underlying gateway
// supports schema bootstrap. Gateways substituted via WithStore that don't
// are assumed to manage their schema externally, and this is a no-op.
func (r *Registrar) EnsureSchema(ctx context.Context) error {
	type schemaEnsurer interface {
		EnsureSchema(context.Context) error
	}
	if s, ok := r.store.(schemaEnsurer); ok {
		return s.EnsureSchema(ctx)
	}
	return nil
}

// CacheStats is a point-in-time snapshot of the registrar's cache counters.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Puts      int64
	Evictions int64
	Len       int
	Capacity  int
}

// CacheStats returns a snapshot of the cache counters.
func (r *Registrar) CacheStats() CacheStats {
	s := r.cache.Stats()
	return CacheStats{
		Hits:      s.Hits,
		Misses:    s.Misses,
		Puts:      s.Puts,
		Evictions: s.Evictions,
		Len:       s.Len,
		Capacity:  s.Capacity,
	}
}

// Close releases the store connection pool. Idempotent: repeated calls
// return the first call's result.
func (r *Registrar) Close() error {
	r.closer.Do(func() {
		if r.store != nil {
			r.closed = r.store.Close()
		}
		r.log.Info("registrar closed")
	})
	return r.closed
}
