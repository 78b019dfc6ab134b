package historycache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
)

const defaultPrefix = "underwriting:history"

// ValkeyCache shares histories between gateway replicas through a Valkey-compatible server.
type ValkeyCache struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyCache stores entries under prefix:<userID> for ttl.
func NewValkeyCache(client valkey.Client, prefix string, ttl time.Duration) *ValkeyCache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &ValkeyCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ValkeyCache) Get(ctx context.Context, userID string) (underwriting.History, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.key(userID)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var history underwriting.History
	if err := json.Unmarshal([]byte(payload), &history); err != nil {
		return nil, false, err
	}
	if history == nil {
		history = underwriting.History{}
	}
	return history, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, userID string, history underwriting.History) error {
	if history == nil {
		history = underwriting.History{}
	}
	payload, err := json.Marshal(history)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.key(userID)).Value(string(payload))
	var cmd valkey.Completed
	if c.ttl > 0 {
		ttl := c.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) Delete(ctx context.Context, userID string) error {
	return c.client.Do(ctx, c.client.B().Del().Key(c.key(userID)).Build()).Error()
}

func (c *ValkeyCache) key(userID string) string {
	return c.prefix + ":" + userID
}

var _ underwriting.HistoryCache = (*ValkeyCache)(nil)
