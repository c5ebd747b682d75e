// Package isomsg packs and unpacks schema-driven binary messages in the
// style of ISO-8583: fixed fields, length-prefixed fields, tag-addressed
// (TLV) fields and bitmap-gated optional groups, nested to any depth.
//
// # Schemas
//
// A schema is a tree of Field values built once at startup and shared
// read-only by every message:
//
//	schema, err := isomsg.NewBuilder(isomsg.KindMessage).Name("auth").
//	    Child(isomsg.KindFixed).Name("mti").FixedLength(2).Body(isomsg.BCD(isomsg.PadLeft, 0)).Parent().
//	    Child(isomsg.KindBitmap).Name("fields").Bitmap(isomsg.ExtendedBitmap(8, 2)).
//	        Child(isomsg.KindLengthPrefixed).Name("pan").Bit(2).
//	            Length(isomsg.BCDLength(1)).Body(isomsg.BCD(isomsg.PadRight, 0xF)).
//	            Masker(isomsg.PANMasker('*')).
//	    Build()
//
// Strategies set on a field are inherited by its descendants. Schemas can
// also be loaded from YAML with LoadSchema, resolving strategy names through
// a caller-owned Catalog.
//
// # Field Kinds
//
//   - KindMessage: the concatenation of its children
//   - KindFixed: exactly FixedLength bytes
//   - KindLengthPrefixed: a length header, then the body
//   - KindTagged: a tag, a length header unless fixed, then the body
//   - KindBitmap: a presence bitmap, then the present children by bit
//
// # Holders
//
// A Holder carries the values of one message:
//
//	h := isomsg.New(schema)
//	_ = h.SetValue("0100", "mti")
//	_ = h.SetValue("4111111111111111", "fields", "pan")
//	data, err := h.Pack(ctx)
//
//	in := isomsg.New(schema)
//	err = in.Unpack(ctx, data)
//	pan, err := in.GetValue("fields", "pan")
//
// Pack order follows the schema, never the assignment order. Unpack must
// consume the whole buffer.
//
// # Strategies
//
// Tag codecs: NoTag, BinaryTag, BCDTag, ASCIITag.
// Length codecs: BinaryLength, BCDLength, ASCIILength.
// Body codecs: BCD, Text, ASCII, EBCDIC, Binary, Hex, Uint.
// Bitmap codecs: FixedBitmap, ExtendedBitmap, HexBitmap.
// Maskers: PANMasker, FullMasker, LastFourMasker, NameMasker, DigestMasker.
//
// # Diagnostics
//
// Holder.Dump renders the value tree through each field's Masker or
// Stringer, so it can be logged without exposing card data. Pack, Unpack,
// Build, Export and Import emit capitan signals carrying sizes and timings.
//
// # Snapshots
//
// Holder.Export and Holder.Import store the value tree through a Codec.
// Providers live in subpackages:
//
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//
// Sealed wraps any of them with an Encryptor such as AES.
//
// # Struct Binding
//
// Binder copies between structs and holders using isomsg struct tags:
//
//	type Auth struct {
//	    MTI string `isomsg:"mti"`
//	    PAN string `isomsg:"fields.pan"`
//	}
//
//	binder, _ := isomsg.NewBinder[Auth](schema)
//	err := binder.Store(h, &Auth{MTI: "0100", PAN: "4111111111111111"})
package isomsg
