package redisx

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"time"
)

// CartStorage keeps serialized carts in Redis, one key per cart session.
// Every write refreshes the TTL so active carts do not expire.
type CartStorage struct {
	R   *redis.Client
	TTL time.Duration
}

func (s *CartStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.R.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *CartStorage) Set(ctx context.Context, key, value string) error {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = TTLCart
	}
	return s.R.Set(ctx, key, value, ttl).Err()
}

// maxUpdateRetries bounds optimistic retries when another writer touches the key mid-update.
const maxUpdateRetries = 100

var ErrCartContention = errors.New("cart update contention")

// Update runs fn on the current value under WATCH and writes the result in a
// MULTI/EXEC. The transaction retries when the key changed in between.
func (s *CartStorage) Update(ctx context.Context, key string, fn func(current string, ok bool) (string, error)) error {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = TTLCart
	}
	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Result()
		ok := true
		if errors.Is(err, redis.Nil) {
			cur, ok = "", false
		} else if err != nil {
			return err
		}
		next, err := fn(cur, ok)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, next, ttl)
			return nil
		})
		return err
	}
	for i := 0; i < maxUpdateRetries; i++ {
		err := s.R.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return ErrCartContention
}

// CartKey is the storage key of a cart session.
func CartKey(sessionID string) string { return fmt.Sprintf(KeyCart, sessionID) }
