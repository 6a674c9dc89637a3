package main

import (
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/aretw0/galvani"
	"github.com/aretw0/galvani/pkg/adapters/badger"
	"github.com/aretw0/galvani/pkg/adapters/memory"
	"github.com/aretw0/galvani/pkg/adapters/redis"
	"github.com/aretw0/galvani/pkg/persistence/middleware"
	"github.com/aretw0/galvani/pkg/ports"
)

// storageOptions selects the layout backend: Redis when an address is
// given, an embedded store when a directory is given, process memory
// otherwise.
type storageOptions struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Dir           string
	LockTTL       time.Duration
}

// Persistent reports whether layouts outlive the process.
func (o storageOptions) Persistent() bool {
	return o.RedisAddr != "" || o.Dir != ""
}

func addStorageFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis-addr", "", "Redis address used to store layouts and lock builds (e.g. localhost:6379)")
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database")
	cmd.Flags().String("store-dir", "", "Directory of an embedded layout store, used when no Redis address is set")
	cmd.Flags().Duration("lock-ttl", galvani.DefaultLockTTL, "Maximum time a build holds the model lock")
}

func storageFlags(cmd *cobra.Command) storageOptions {
	var opts storageOptions
	opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
	opts.RedisPassword, _ = cmd.Flags().GetString("redis-password")
	opts.RedisDB, _ = cmd.Flags().GetInt("redis-db")
	opts.Dir, _ = cmd.Flags().GetString("store-dir")
	opts.LockTTL, _ = cmd.Flags().GetDuration("lock-ttl")
	return opts
}

// storage is the layout store and build locker shared by a command.
type storage struct {
	Store  ports.LayoutStore
	Locker ports.DistributedLocker
	TTL    time.Duration
	close  func() error
}

func openStorage(opts storageOptions) (*storage, error) {
	ttl := opts.LockTTL
	if ttl <= 0 {
		ttl = galvani.DefaultLockTTL
	}
	st := &storage{
		Locker: memory.NewLocker(),
		TTL:    ttl,
		close:  func() error { return nil },
	}

	var store ports.LayoutStore
	switch {
	case opts.RedisAddr != "":
		client := backend.NewClient(&backend.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		store = redis.NewFromClient(client)
		st.Locker = redis.NewLocker(client, "galvani:")
		st.close = client.Close
	case opts.Dir != "":
		cfg := badger.DefaultConfig(opts.Dir)
		cfg.Logger = logger
		db, err := badger.Open(cfg)
		if err != nil {
			return nil, err
		}
		store = db
		st.close = db.Close
	default:
		st.Store = memory.NewStore()
		return st, nil
	}

	st.Store = middleware.Chain(store,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewValidationMiddleware(),
	)
	return st, nil
}

// Options returns the pipeline options that route layouts and locks
// through the storage.
func (s *storage) Options() []galvani.Option {
	return []galvani.Option{
		galvani.WithLayoutStore(s.Store),
		galvani.WithLocker(s.Locker, s.TTL),
	}
}

func (s *storage) Close() error {
	return s.close()
}
