package export

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Sink receives published report blobs.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Name identifies the sink in logs and errors.
	Name() string
	// Put writes a blob atomically, replacing any existing blob of that name.
	Put(ctx context.Context, name string, data []byte) error
}

// Reader is implemented by sinks that can read blobs back.
type Reader interface {
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
