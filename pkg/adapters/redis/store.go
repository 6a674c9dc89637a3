package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/ports"
)

// Store implements ports.LayoutStore using Redis. Layouts are stored as
// JSON under prefix+model; a sorted set indexes the stored models.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for layouts.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for layouts.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "galvani:layout:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(model string) string {
	return s.prefix + model
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the layout to Redis.
func (s *Store) Save(ctx context.Context, layout *discretise.Layout) error {
	data, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	pipe := s.client.TxPipeline()

	// 1. Save JSON with TTL (0 means no expiration)
	pipe.Set(ctx, s.key(layout.Model), data, s.ttl)

	// 2. Add to index. The score is the expiry time so List can prune lazily.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: layout.Model,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the layout of model from Redis.
func (s *Store) Load(ctx context.Context, model string) (*discretise.Layout, error) {
	val, err := s.client.Get(ctx, s.key(model)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ports.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var layout discretise.Layout
	if err := json.Unmarshal(val, &layout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout: %w", err)
	}
	return &layout, nil
}

// Delete removes the layout of model.
func (s *Store) Delete(ctx context.Context, model string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(model))
	pipe.ZRem(ctx, s.indexKey(), model)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the models with a live layout, pruning expired index
// entries first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired layouts: %w", err)
	}

	models, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	return models, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
