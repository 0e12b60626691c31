package keystore

import "errors"

// Store persists the named credential set plus the active-name pointer.
// The set is always read and written as a whole: mutations are
// read-modify-write over the full mapping, never per entry.
type Store interface {
	// LoadAll returns the full name->secret mapping. Absent or corrupt
	// persisted state loads as an empty set; parse failures are never
	// propagated.
	LoadAll() (map[string]string, error)
	// SaveAll overwrites the persisted mapping with the given set.
	SaveAll(keys map[string]string) error
	// ActiveName returns the persisted active key name, or "" if unset.
	// The name may dangle (reference a deleted entry); callers treat a
	// dangling name as "no active credential".
	ActiveName() string
	// SetActiveName persists the active name unconditionally. No check
	// is made that the name exists in the set.
	SetActiveName(name string) error
}

// ErrNotFound is returned when a named key is not present in the store.
var ErrNotFound = errors.New("key not found")

// ServiceName is the service identifier for keyring storage.
const ServiceName = "falkey"
