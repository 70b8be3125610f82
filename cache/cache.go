// Package cache keeps short-lived JSON snapshots (store profiles, recent
// orders, menu metadata, staff sessions) in Redis or in process memory.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is a JSON key-value cache.
type Store interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func StoreProfileKey(slug string) string {
	return fmt.Sprintf("store_profile_%s", slug)
}

func OrdersKey(storeID string) string {
	return fmt.Sprintf("orders_cache_%s", storeID)
}

func MetadataKey(storeID string) string {
	return fmt.Sprintf("metadata_cache_%s", storeID)
}

func SessionKey(tokenID string) string {
	return fmt.Sprintf("staff_session_%s", tokenID)
}

// StaffRevokedKey marks a deleted staff member whose tokens must no longer parse
func StaffRevokedKey(waitstaffID string) string {
	return fmt.Sprintf("staff_revoked_%s", waitstaffID)
}
