package dsopt

import (
	"fmt"

	"github.com/hupe1980/dsopt/bloom"
	"github.com/hupe1980/dsopt/cache"
)

var (
	// ErrInvalidCapacity is returned when a cache is created with a
	// non-positive capacity.
	ErrInvalidCapacity = cache.ErrInvalidCapacity

	// ErrInvalidParameters is returned when a Bloom filter is created with a
	// non-positive element count or a false positive rate outside (0, 1).
	ErrInvalidParameters = bloom.ErrInvalidParameters
)

// ErrConstruction reports a structure that could not be created.
//
// The original underlying error can be accessed via errors.Unwrap, so
// errors.Is(err, ErrInvalidCapacity) keeps working.
type ErrConstruction struct {
	Kind  string
	Name  string
	cause error
}

func (e *ErrConstruction) Error() string {
	return fmt.Sprintf("cannot create %s %q: %v", e.Kind, e.Name, e.cause)
}

func (e *ErrConstruction) Unwrap() error { return e.cause }
