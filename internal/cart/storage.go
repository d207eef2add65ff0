package cart

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Storage.Load when nothing is stored under the key.
var ErrNotFound = errors.New("cart not found in storage")

// Storage is the key-value medium the cart is mirrored to. Save overwrites
// the whole value.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
}

// Pinger is implemented by storages that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StorageKey builds the key for a session's cart. An empty session addresses
// the bare namespace.
func StorageKey(namespace, session string) string {
	namespace = strings.TrimSpace(namespace)
	session = strings.TrimSpace(session)
	if session == "" {
		return namespace
	}
	return namespace + ":" + session
}
