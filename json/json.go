// Package json provides a JSON codec for transit mapping documents.
package json

import (
	"bytes"
	"encoding/json"

	"github.com/zoobzio/transit"
)

// jsonCodec implements transit.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec. Output is indented; decoding rejects unknown
// keys so misspelled document fields surface as errors.
func New() transit.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as indented JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
