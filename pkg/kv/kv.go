package kv

// Store is the get/set/delete/list primitive everything persists through.
// Values are opaque serialized blobs keyed by string.
type Store interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set writes the value for key, overwriting any previous value.
	Set(key, value string) error
	// Delete removes the key; deleting an absent key is not an error.
	Delete(key string) error
	// Keys returns all keys starting with prefix; empty prefix lists all.
	Keys(prefix string) ([]string, error)
	Close() error
}
