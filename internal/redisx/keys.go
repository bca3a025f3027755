package redisx

import "time"

const (
	// Availability cache: stock:avail:{product_id} -> {"available": N}
	KeyAvailability = "stock:avail:%s"

	// Revoked bearer tokens (logout): auth:revoked:{jti} -> 1
	KeyRevokedToken = "auth:revoked:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLAvailability = 1 * time.Minute
	TTLRevokedToken = 24 * time.Hour
	TTLDedup        = 48 * time.Hour
)
