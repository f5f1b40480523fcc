package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/w2wlabs/what2watch/internal/platform/resilience"
)

// Loader pairs a Store with request collapsing so a cache miss triggers at
// most one upstream load per key across concurrent callers.
type Loader struct {
	store  Store
	flight resilience.SingleFlight
}

func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

func (l *Loader) Store() Store {
	return l.store
}

// GetOrLoad returns the cached bytes for key, loading and caching them with
// ttl on a miss. Loader errors are never cached.
func (l *Loader) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := l.store.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := l.flight.Do(key, func() (any, error) {
		if cached, ok := l.store.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		l.store.Set(ctx, key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	bytes, _ := value.([]byte)
	return bytes, nil
}

// LoadJSON caches the sonic encoding of load's result under key and decodes
// it back into T on cache hits.
func LoadJSON[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := l.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		value, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		return sonic.Marshal(value)
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("decode cached value for %q: %w", key, err)
	}
	return out, nil
}
