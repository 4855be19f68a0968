package port

import (
	"context"
	"time"
)

// LookupCache stores small serialized lookup results such as the distinct
// months and customer dropdown of a tenant. Implementations must treat a
// miss and a backend failure alike: callers fall through to storage.
type LookupCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
