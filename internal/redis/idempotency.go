package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const reservationTTL = 15 * time.Minute

// commands is the slice of the redis client the reservation needs.
type commands interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Idempotency reserves caller-supplied idempotency keys so a duplicate
// charge submission is dropped before it reaches the payment service.
type Idempotency struct {
	client commands
}

func NewIdempotency(client *redis.Client) *Idempotency {
	return &Idempotency{client: client}
}

// Reserve claims the key. It returns false when the key is already held,
// meaning the same charge was submitted before.
func (i *Idempotency) Reserve(ctx context.Context, key string) (bool, error) {
	return i.client.SetNX(ctx, "charge_idem:"+key, "1", reservationTTL).Result()
}

// Release frees the key after a failed charge so the caller may retry with
// the same key. Deleting a key that already expired is not an error.
func (i *Idempotency) Release(ctx context.Context, key string) error {
	return i.client.Del(ctx, "charge_idem:"+key).Err()
}
