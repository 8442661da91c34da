// Package store persists the small amount of client state the dashboard
// keeps between sessions: the data provider API key.
package store

import "context"

// APIKeyName is the fixed key the provider API key is stored under.
const APIKeyName = "patmaApiKey"

// KeyStore is a string key-value store. Get returns "" for a missing key.
type KeyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}
