package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/snappy"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "invoicemaker:draft:"

// Redis stores snappy-compressed drafts in a redis server.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	value, err := decompress(raw)
	if err != nil {
		return "", true, err
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, redisKeyPrefix+key, compress(value), 0).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Backend() string { return "redis" }

func compress(value string) []byte {
	return snappy.Encode(nil, []byte(value))
}

func decompress(raw []byte) (string, error) {
	out, err := snappy.Decode(nil, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	return string(out), nil
}
