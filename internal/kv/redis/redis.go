// Package redis is a kv driver that keeps a suite in a redis database,
// one string key per namespace key, prefixed with the suite name.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/tuck/internal/kv"
	"github.com/MrSnakeDoc/tuck/internal/logger"
	"github.com/MrSnakeDoc/tuck/internal/redis"
)

func init() {
	kv.Register("redis", Open)
}

// maxTxRetries bounds optimistic-lock retries in Update.
const maxTxRetries = 64

// Namespace is a suite stored in redis.
type Namespace struct {
	client *goredis.Client
	suite  string
}

// Open is the kv.Factory for the redis driver. Options are the
// redis.ConnectOptions keys (addr, password, db, connect_timeout, ...).
func Open(ctx context.Context, cfg kv.Config) (kv.Namespace, error) {
	var opts redis.ConnectOptions
	if err := kv.DecodeOptions(cfg.Options, &opts); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = logger.New("error", false)
	}
	client, err := redis.New(ctx, opts, log)
	if err != nil {
		return nil, err
	}
	return New(client, cfg.Suite), nil
}

// New wraps an already connected client.
func New(client *goredis.Client, suite string) *Namespace {
	return &Namespace{client: client, suite: suite}
}

// Key returns the redis key for a namespace key.
func (n *Namespace) Key(key string) string { return n.suite + ":" + key }

func (n *Namespace) Name() string { return "redis:" + n.suite }

func (n *Namespace) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := n.client.Get(ctx, n.Key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

func (n *Namespace) Set(ctx context.Context, key string, value []byte) error {
	if err := n.client.Set(ctx, n.Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (n *Namespace) Delete(ctx context.Context, key string) error {
	if err := n.client.Del(ctx, n.Key(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Update reads, transforms and writes key inside a WATCH transaction and
// retries when another client changed the key in between.
func (n *Namespace) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	rk := n.Key(key)
	txf := func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, rk).Bytes()
		found := true
		if errors.Is(err, goredis.Nil) {
			cur, found = nil, false
		} else if err != nil {
			return err
		}

		next, err := fn(cur, found)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, rk, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := n.client.Watch(ctx, txf, rk)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("update %s: %w", key, err)
		}
		return nil
	}
	return fmt.Errorf("update %s: too much contention after %d attempts", key, maxTxRetries)
}

func (n *Namespace) Ping(ctx context.Context) error { return n.client.Ping(ctx).Err() }

func (n *Namespace) Close() error { return n.client.Close() }

var (
	_ kv.Namespace = (*Namespace)(nil)
	_ kv.Updater   = (*Namespace)(nil)
)
