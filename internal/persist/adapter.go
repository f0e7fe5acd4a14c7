package persist

import "errors"

// Common errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAdapterClosed = errors.New("storage adapter is closed")
)

// Adapter is the flat string key/value substrate a Records store writes to.
// Any durable KV backend satisfies the contract; the shipped implementations
// are SQLite and an in-memory map.
type Adapter interface {
	// ReadRaw returns the raw value for key, or ErrNotFound.
	ReadRaw(key string) (string, error)

	// WriteRaw stores value under key, overwriting any previous value.
	WriteRaw(key, value string) error

	// RemoveRaw deletes the value for key. Removing an absent key is not
	// an error.
	RemoveRaw(key string) error
}
