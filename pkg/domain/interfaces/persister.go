package interfaces

import "context"

// Persister stores the whole encoded dictionary text at one location
type Persister interface {
	// Load returns the stored text. A location that does not exist yet yields
	// (nil, nil) so callers can start from an empty dictionary.
	Load(ctx context.Context) ([]byte, error)

	// Save overwrites the stored text. Writes are not atomic.
	Save(ctx context.Context, data []byte) error

	// Location describes where the text lives, for logging
	Location() string

	Close() error
}
