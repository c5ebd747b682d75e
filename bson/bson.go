// Package bson provides a BSON snapshot codec.
package bson

import (
	"github.com/zoobzio/isomsg"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bsonCodec implements isomsg.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() isomsg.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON. The top level must be a document.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v. When v is a *map[string]any, nested
// documents are converted to map[string]any so snapshots keep one shape
// across codecs.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	if err := bson.Unmarshal(data, v); err != nil {
		return err
	}
	if m, ok := v.(*map[string]any); ok && *m != nil {
		for k, e := range *m {
			(*m)[k] = normalize(e)
		}
	}
	return nil
}

// normalize converts embedded documents to map[string]any.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	default:
		return v
	}
}
