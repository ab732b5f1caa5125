package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Denylist records token IDs revoked before their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ErrDenylistFull is returned by MemoryDenylist.Revoke when the list holds
// capacity live entries. A live entry is never evicted to make room.
var ErrDenylistFull = errors.New("denylist full")

// MemoryDenylist is a process-local denylist. Entries leave only when the
// token they cover expires.
type MemoryDenylist struct {
	mu       sync.Mutex
	entries  *expirable.LRU[string, time.Time]
	capacity int
	now      func() time.Time
}

// NewMemoryDenylist keeps at most capacity entries, each for at most maxTTL,
// which should be the longest token lifetime in use.
func NewMemoryDenylist(capacity int, maxTTL time.Duration) *MemoryDenylist {
	if capacity <= 0 {
		capacity = 10000
	}
	return &MemoryDenylist{
		entries:  expirable.NewLRU[string, time.Time](0, nil, maxTTL),
		capacity: capacity,
		now:      time.Now,
	}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("token id required")
	}
	if !expiresAt.After(d.now()) {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.entries.Contains(tokenID) && d.entries.Len() >= d.capacity {
		d.purgeExpired()
		if d.entries.Len() >= d.capacity {
			return ErrDenylistFull
		}
	}
	d.entries.Add(tokenID, expiresAt)
	return nil
}

// purgeExpired drops entries whose token has expired. The LRU's own TTL
// sweep runs in buckets, so expired entries can linger briefly.
func (d *MemoryDenylist) purgeExpired() {
	now := d.now()
	for _, id := range d.entries.Keys() {
		if expiresAt, ok := d.entries.Peek(id); ok && !expiresAt.After(now) {
			d.entries.Remove(id)
		}
	}
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	expiresAt, ok := d.entries.Get(tokenID)
	if !ok {
		return false, nil
	}
	if !expiresAt.After(d.now()) {
		d.entries.Remove(tokenID)
		return false, nil
	}
	return true, nil
}

// Len reports the number of live entries.
func (d *MemoryDenylist) Len() int {
	return d.entries.Len()
}

const redisDenylistPrefix = "crovio:auth:revoked:"

// RedisDenylist shares revocations across instances. Each key expires with
// the token it revokes.
type RedisDenylist struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisDenylist wraps a connected client.
func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client, now: time.Now}
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("token id required")
	}
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, redisDenylistPrefix+tokenID, expiresAt.Unix(), ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, redisDenylistPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
