// Package redis caches created PIX charges so a duplicate create call
// inside the 1-hour validity window returns the existing charge instead
// of opening a second one at the vendor.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pixstore/internal/gateway"

	"github.com/redis/go-redis/v9"
)

const chargeTTL = time.Hour

type ChargeCache struct {
	client *redis.Client
}

// NewChargeCache accepts a nil client; every operation then degrades to a
// miss, so the service runs without redis in development.
func NewChargeCache(client *redis.Client) *ChargeCache {
	return &ChargeCache{client: client}
}

func chargeKey(numeroPedido string) string {
	return fmt.Sprintf("pix:charge:%s", numeroPedido)
}

func (c *ChargeCache) Get(ctx context.Context, numeroPedido string) (gateway.Charge, bool) {
	if c.client == nil {
		return gateway.Charge{}, false
	}

	raw, err := c.client.Get(ctx, chargeKey(numeroPedido)).Result()
	if err != nil {
		return gateway.Charge{}, false
	}

	var charge gateway.Charge
	if err := json.Unmarshal([]byte(raw), &charge); err != nil {
		return gateway.Charge{}, false
	}
	return charge, true
}

func (c *ChargeCache) Set(ctx context.Context, numeroPedido string, charge gateway.Charge) {
	if c.client == nil {
		return
	}
	if data, err := json.Marshal(charge); err == nil {
		c.client.Set(ctx, chargeKey(numeroPedido), data, chargeTTL)
	}
}
