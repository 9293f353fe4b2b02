// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	seenKeyPrefix = "applicant:seen:"

	// defaultSeenTTL comfortably covers the maximum lookback window, so a
	// cache hit is always a true ledger hit.
	defaultSeenTTL = 30 * 24 * time.Hour
)

// SeenCache is a Redis front for the ledger's IsProcessed check. It is an
// optimisation only; a cold or unavailable cache never changes outcomes.
type SeenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSeenCache wraps a Redis client. A zero ttl selects the default.
func NewSeenCache(client *redis.Client, ttl time.Duration) *SeenCache {
	if ttl <= 0 {
		ttl = defaultSeenTTL
	}
	return &SeenCache{client: client, ttl: ttl}
}

// Seen reports whether the message ID has been marked.
func (c *SeenCache) Seen(ctx context.Context, messageID string) (bool, error) {
	n, err := c.client.Exists(ctx, seenKeyPrefix+messageID).Result()
	if err != nil {
		return false, fmt.Errorf("seen-cache exists: %w", err)
	}
	return n > 0, nil
}

// Mark records the message ID with the cache TTL.
func (c *SeenCache) Mark(ctx context.Context, messageID string) error {
	if err := c.client.Set(ctx, seenKeyPrefix+messageID, "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("seen-cache set: %w", err)
	}
	return nil
}

// Ping verifies connectivity at startup.
func (c *SeenCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
