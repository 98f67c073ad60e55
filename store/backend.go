// Package store provides the pluggable persistence backends for the
// ROMIND memory layers. All data is addressed by namespace (one per
// memory layer) and key, either as a single value or as an ordered list.
package store

// Backend is the narrow storage contract every memory layer talks to.
// Implementations must tolerate unknown namespaces and keys: a read of
// something never written returns the empty value, not an error.
type Backend interface {
	// KV operations — structured single objects (biography, semantic index).
	Get(namespace, key string) (string, error)
	Set(namespace, key, value string) error
	Delete(namespace, key string) error

	// List operations — ordered record sequences (episodic log, rules).
	Append(namespace, key, value string) error
	GetList(namespace, key string) ([]string, error)
	TrimList(namespace, key string, maxSize int) error
	ClearList(namespace, key string) error
	ListLength(namespace, key string) (int, error)
}
