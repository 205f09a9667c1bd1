package store

import "context"

// KV is the key-value primitive underneath the event configuration store.
//
// Keys are typed by usage: a key written with Set holds a plain string, a
// key written with HSet holds a field map. Accessing a key through the
// wrong family of operations returns ErrWrongType, matching the behavior
// of the Redis deployment this schema was migrated from.
type KV interface {
	// Get returns the string value stored at key. ErrNotFound if absent,
	// ErrWrongType if the key holds a field map.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a string value at key, replacing any existing value
	// regardless of its type.
	Set(ctx context.Context, key, value string) error

	// HGetAll returns all fields stored at key. An absent key yields an
	// empty map, not an error. ErrWrongType if the key holds a string.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// HSet writes the given fields at key, leaving other fields intact.
	// ErrWrongType if the key holds a string.
	HSet(ctx context.Context, key string, fields map[string]string) error

	// Del removes the key in whichever representation it exists.
	Del(ctx context.Context, key string) error

	// HealthCheck verifies that the backend is reachable.
	HealthCheck(ctx context.Context) error
}
