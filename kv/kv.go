// Package kv defines the key-value persistence layer shared by the session
// store, the token helper and the cart engine. Values are strings, JSON
// encoded where structured; every component owns its own namespaced keys and
// no operation spans more than one key.
package kv

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
