package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zeu5/pacman-rl/policies"
)

var ErrConnectionFailed = errors.New("store: connection failed")

// RedisConfig holds the Redis connection configuration.
type RedisConfig struct {
	Address     string        `yaml:"address"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	// KeyPrefix is prepended to every policy name
	KeyPrefix string `yaml:"key_prefix"`
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Address:     "localhost:6379",
		DialTimeout: 5 * time.Second,
		KeyPrefix:   "pacman:",
	}
}

// RedisOption configures the Redis connection.
type RedisOption func(*RedisConfig)

func WithAddress(addr string) RedisOption {
	return func(c *RedisConfig) {
		c.Address = addr
	}
}

func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisConfig) {
		c.KeyPrefix = prefix
	}
}

// RedisStore keeps every policy under its own key.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

var _ Store = &RedisStore{}

// NewRedisStore connects and pings the server.
func NewRedisStore(cfg RedisConfig, opts ...RedisOption) (*RedisStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Address,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	return &RedisStore{client: client, keyPrefix: cfg.KeyPrefix}, nil
}

func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) key(name string) string {
	return s.keyPrefix + "policy:" + name
}

func (s *RedisStore) Save(ctx context.Context, name string, table *policies.QTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(table)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(name), data, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context, name string, table *policies.QTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrNotFound, s.key(name))
		}
		return err
	}
	return Unmarshal(data, table)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
