package redis

import (
	"context"
	"encoding/json"
	"time"

	"assistant-hub/internal/domain/model"
)

// ThreadCache keeps recently loaded threads (with decrypted messages) hot so
// repeated Ask calls skip the message-history query.
type ThreadCache struct {
	client *Client
	ttl    time.Duration
}

func NewThreadCache(client *Client, ttl time.Duration) *ThreadCache {
	return &ThreadCache{client: client, ttl: ttl}
}

func (c *ThreadCache) Store(ctx context.Context, t *model.Thread) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "thread:"+t.ID, data, c.ttl)
}

func (c *ThreadCache) Get(ctx context.Context, threadID string) (*model.Thread, error) {
	data, err := c.client.Get(ctx, "thread:"+threadID)
	if err != nil {
		return nil, err
	}
	var t model.Thread
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *ThreadCache) Delete(ctx context.Context, threadID string) error {
	return c.client.Del(ctx, "thread:"+threadID)
}
