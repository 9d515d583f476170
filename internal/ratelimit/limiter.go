package ratelimit

import "context"

// GatewayKey paces outbound calls to the send gateway.
const GatewayKey = "gateway"

// RateLimiter controls outbound send throughput per key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Wait(ctx context.Context, key string) error
}
