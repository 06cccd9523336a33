package redisx

import "time"

const (
	// Session cart lines: cart:{cart_id} -> JSON array of lines
	KeyCart = "cart:%s"
)

var (
	// Carts are session-scoped; no guarantee is made past this TTL.
	TTLCart = 24 * time.Hour
)
