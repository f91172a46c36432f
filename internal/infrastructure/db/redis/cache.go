package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss is returned by Store.Get when the key does not exist.
	ErrCacheMiss = errors.New("cache miss")
	// ErrStaleWrite is returned by Store.SetIfVersion when the version key
	// moved after the caller read it.
	ErrStaleWrite = errors.New("stale cache write")
)

// Store is the key/value surface the cached repositories need. Every cached
// key is paired with a version key that writers bump on invalidation; a fill
// only lands while the version the reader saw is still current.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
	// Version returns the current value of versionKey, 0 when unset.
	Version(ctx context.Context, versionKey string) (int64, error)
	// Bump increments versionKey and refreshes its expiry.
	Bump(ctx context.Context, versionKey string, ttl time.Duration) error
	// SetIfVersion stores value under key only if versionKey still holds version.
	SetIfVersion(ctx context.Context, key string, value []byte, ttl time.Duration, versionKey string, version int64) error
}

// ClientStore adapts a go-redis client to Store.
type ClientStore struct {
	client *redis.Client
}

var _ Store = (*ClientStore)(nil)

func NewClientStore(client *redis.Client) *ClientStore {
	return &ClientStore{client: client}
}

func (s *ClientStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (s *ClientStore) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *ClientStore) Version(ctx context.Context, versionKey string) (int64, error) {
	v, err := s.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (s *ClientStore) Bump(ctx context.Context, versionKey string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, versionKey)
		p.Expire(ctx, versionKey, ttl)
		return nil
	})
	return err
}

// SetIfVersion watches versionKey so a Bump between the check and the write
// aborts the transaction.
func (s *ClientStore) SetIfVersion(ctx context.Context, key string, value []byte, ttl time.Duration, versionKey string, version int64) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return ErrStaleWrite
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, value, ttl)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleWrite
	}
	return err
}
