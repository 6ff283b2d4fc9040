// Package codec centralizes report encoding.
//
// Exported reports record the codec in their file extension only; readers are
// expected to decode with the codec that wrote them.
package codec

import (
	"fmt"
	"slices"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	case "json-indent":
		return IndentJSON{Indent: "  "}, true
	default:
		return nil, false
	}
}

// Names lists the names accepted by ByName.
func Names() []string {
	names := []string{"json", "go-json", "json-indent"}
	slices.Sort(names)
	return names
}

// MustMarshal is a helper for tests and benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
