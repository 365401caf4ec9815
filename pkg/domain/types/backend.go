package types

import "fmt"

// Backend is the persistence target of a dictionary
type Backend string

const (
	BackendFile      Backend = "file"
	BackendGCS       Backend = "gcs"
	BackendFirestore Backend = "firestore"
)

// AllBackends returns all valid backends
func AllBackends() []Backend {
	return []Backend{
		BackendFile,
		BackendGCS,
		BackendFirestore,
	}
}

// IsValid checks if the backend is valid
func (b Backend) IsValid() bool {
	switch b {
	case BackendFile,
		BackendGCS,
		BackendFirestore:
		return true
	default:
		return false
	}
}

// String returns the string representation of the backend
func (b Backend) String() string {
	return string(b)
}

// ParseBackend parses a string into a Backend. Empty means BackendFile.
func ParseBackend(s string) (Backend, error) {
	if s == "" {
		return BackendFile, nil
	}
	b := Backend(s)
	if !b.IsValid() {
		return "", fmt.Errorf("invalid storage backend: %s", s)
	}
	return b, nil
}
