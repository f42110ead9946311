// Package storage abstracts the key/value places session data can live: a
// browsing session's cookies on the server, a process-lifetime map, or a file
// in the user's config directory for terminal clients.
package storage

// Area is a flat string key/value store. Implementations must treat Delete of a
// missing key as a no-op.
type Area interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}
