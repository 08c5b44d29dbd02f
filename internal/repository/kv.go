package repository

import "context"

// KV is the durable key-value port the tracker persists through. Values are
// opaque strings; absence is reported, not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
