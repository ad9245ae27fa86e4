// Package snapshot persists the most recent recommendation result for
// inspection and debugging. Snapshots are a side effect available to
// collaborators, not part of the recommendation contract: losing one never
// affects the next call.
package snapshot

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	shipathon "github.com/nakshatramandowara/Shipathon"
)

// Store persists recommendation result lists keyed by user name.
// Writes are last-write-wins.
type Store interface {
	// Save replaces the stored snapshot for the given user.
	Save(ctx context.Context, user string, events []shipathon.EventRecord) error

	// Latest retrieves the most recent snapshot for the given user.
	// Returns nil if no snapshot exists (not an error).
	Latest(ctx context.Context, user string) ([]shipathon.EventRecord, error)

	// Close closes the store and releases any resources.
	Close() error
}

// StoreType represents the type of snapshot store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeFile   StoreType = "file"
)

// StoreOption is a functional option for configuring a snapshot store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
	dir         string
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the TTL for Redis keys.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// WithDir sets the output directory for the file store.
func WithDir(dir string) StoreOption {
	return func(c *storeConfig) {
		c.dir = dir
	}
}

// NewStore creates a snapshot Store of the given type.
// Supports "memory", "redis" (requires WithRedisClient) and "file"
// (requires WithDir) driver types.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return &memoryStore{
			snapshots: make(map[string][]shipathon.EventRecord),
		}, nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, shipathon.ErrInvalidConfig
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{
			client: config.redisClient,
			ttl:    ttl,
		}, nil

	case StoreTypeFile:
		if config.dir == "" {
			return nil, shipathon.ErrInvalidConfig
		}
		return &fileStore{dir: config.dir}, nil

	default:
		return nil, shipathon.ErrInvalidStoreType
	}
}

// memoryStore implements Store using an in-memory map.
type memoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]shipathon.EventRecord
}

// Save implements Store.
func (s *memoryStore) Save(ctx context.Context, user string, events []shipathon.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]shipathon.EventRecord, len(events))
	copy(stored, events)
	s.snapshots[user] = stored
	return nil
}

// Latest implements Store.
func (s *memoryStore) Latest(ctx context.Context, user string) ([]shipathon.EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, exists := s.snapshots[user]
	if !exists {
		return nil, nil
	}
	return events, nil
}

// Close implements Store.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = nil
	return nil
}

// redisStore implements Store using Redis with a TTL per snapshot.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Save implements Store.
func (s *redisStore) Save(ctx context.Context, user string, events []shipathon.EventRecord) error {
	key := "recommendations:" + user
	val, err := marshalJSON(events)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, val, s.ttl).Err()
}

// Latest implements Store.
func (s *redisStore) Latest(ctx context.Context, user string) ([]shipathon.EventRecord, error) {
	key := "recommendations:" + user
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var events []shipathon.EventRecord
	if err := unmarshalJSON([]byte(val), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}

// Helper functions for JSON marshaling
func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

func unmarshalJSON(b []byte, v any) error {
	return json.Unmarshal(b, v)
}
