// Package xml provides an XML codec for transit mapping documents.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/transit"
)

// xmlCodec implements transit.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec. Documents are written with the standard XML
// header and two-space indentation.
func New() transit.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as indented XML with a header.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	data, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
