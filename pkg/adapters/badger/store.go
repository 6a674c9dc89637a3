// Package badger implements ports.LayoutStore on an embedded BadgerDB, so a
// single host keeps layouts across runs without a Redis server.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/ports"
)

// Config holds configuration for the underlying database.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Useful for testing.
	InMemory bool

	// SyncWrites flushes every write to disk before returning.
	SyncWrites bool

	// Logger receives BadgerDB's own log lines. Nil silences them.
	Logger *slog.Logger

	// GCInterval is how often value log garbage collection runs.
	// Zero disables it.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum discardable share before a value log
	// file is rewritten.
	GCDiscardRatio float64
}

// DefaultConfig returns the configuration of a durable store at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store implements ports.LayoutStore using BadgerDB. Layouts are stored as
// JSON under prefix+model.
type Store struct {
	db     *badger.DB
	prefix string
	logger *slog.Logger
	stop   chan struct{}
	done   chan struct{}
}

type Option func(*Store)

// WithPrefix sets the key prefix for layouts.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// Open opens (creating if needed) the database described by cfg. The
// caller must Close the store.
func Open(cfg Config, opts ...Option) (*Store, error) {
	var bopts badger.Options
	if cfg.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("path is required for a persistent layout store")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create layout store directory %s: %w", cfg.Path, err)
		}
		bopts = badger.DefaultOptions(cfg.Path)
	}
	bopts = bopts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open layout store: %w", err)
	}
	s := NewFromDB(db, opts...)
	if cfg.Logger != nil {
		s.logger = cfg.Logger
	}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.startGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return s, nil
}

// NewFromDB creates a store on an open database. Close closes db.
func NewFromDB(db *badger.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		prefix: "layout:",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) startGC(interval time.Duration, ratio float64) {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				// ErrNoRewrite means there was nothing to collect.
				if err := s.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
					s.logger.Warn("layout store value log GC failed", "error", err)
				}
			}
		}
	}()
}

// Close stops garbage collection and closes the database.
func (s *Store) Close() error {
	if s.stop != nil {
		close(s.stop)
		<-s.done
		s.stop = nil
	}
	return s.db.Close()
}

func (s *Store) key(model string) []byte {
	return []byte(s.prefix + model)
}

// Save persists the layout.
func (s *Store) Save(ctx context.Context, layout *discretise.Layout) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(layout.Model), data)
	})
}

// Load retrieves the layout of a model.
func (s *Store) Load(ctx context.Context, model string) (*discretise.Layout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var layout discretise.Layout
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(model))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &layout)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ports.ErrLayoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load layout %q: %w", model, err)
	}
	return &layout, nil
}

// Delete removes the layout of a model.
func (s *Store) Delete(ctx context.Context, model string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key(model))
	})
}

// List returns the stored model names in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(s.prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, string(it.Item().Key()[len(s.prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
