// Package bson provides a BSON codec for transit mapping documents, for
// keeping class map declarations in a MongoDB collection.
package bson

import (
	"github.com/zoobzio/transit"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements transit.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() transit.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
