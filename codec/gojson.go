package codec

import gojson "github.com/goccy/go-json"

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
// Its output is byte-compatible with encoding/json.
type GoJSON struct{}

// Marshal encodes the value to JSON.
func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns the unique name of the codec ("go-json").
func (GoJSON) Name() string { return "go-json" }

// IndentJSON is GoJSON with indented output, used for reports printed to a
// terminal.
type IndentJSON struct {
	Indent string
}

// Marshal encodes the value to indented JSON.
func (c IndentJSON) Marshal(v any) ([]byte, error) { return gojson.MarshalIndent(v, "", c.Indent) }

// Unmarshal decodes the JSON data into v.
func (IndentJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json-indent").
func (IndentJSON) Name() string { return "json-indent" }
