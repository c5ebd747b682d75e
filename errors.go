package isomsg

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrDuplicateName indicates two siblings share a name.
	ErrDuplicateName = errors.New("duplicate field name")

	// ErrDuplicateTag indicates two tagged siblings share a tag number.
	ErrDuplicateTag = errors.New("duplicate tag number")

	// ErrDuplicateBit indicates two bitmap children share a bit, or bits are not ascending.
	ErrDuplicateBit = errors.New("duplicate or unordered bit")

	// ErrMissingName indicates a non-root field has no name.
	ErrMissingName = errors.New("missing field name")

	// ErrMissingBodyCodec indicates a leaf cannot resolve a body codec.
	ErrMissingBodyCodec = errors.New("missing body codec")

	// ErrMissingLengthCodec indicates a length-prefixed field cannot resolve a length codec.
	ErrMissingLengthCodec = errors.New("missing length codec")

	// ErrMissingBitmapCodec indicates a bitmap group cannot resolve a bitmap codec.
	ErrMissingBitmapCodec = errors.New("missing bitmap codec")

	// ErrInvalidLength indicates inconsistent length bounds.
	ErrInvalidLength = errors.New("invalid length bounds")

	// ErrInvalidKind indicates an attribute that does not apply to the field kind.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrInvalidBit indicates a bit position outside the codec capacity or reserved.
	ErrInvalidBit = errors.New("invalid bit")

	// ErrMixedChildren indicates tagged and untagged siblings under one parent.
	ErrMixedChildren = errors.New("mixed tagged and positional children")

	// ErrBuilderMisuse indicates a builder call that cannot apply at the current position.
	ErrBuilderMisuse = errors.New("builder misuse")
)

// Resolution errors.
var (
	// ErrUnknownField indicates a path segment with no matching schema child.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotFound indicates the path is valid but no value is present.
	ErrNotFound = errors.New("value not found")

	// ErrNotLeaf indicates a value operation on a field that has children.
	ErrNotLeaf = errors.New("field is not a leaf")

	// ErrSchemaMismatch indicates a holder bound to a different schema than the binder.
	ErrSchemaMismatch = errors.New("holder schema does not match binder schema")
)

// Codec errors.
var (
	ErrInvalidValue    = errors.New("invalid value")
	ErrLengthMismatch  = errors.New("body length does not match fixed length")
	ErrTooLong         = errors.New("body exceeds max length")
	ErrTooShort        = errors.New("body below min length")
	ErrLengthRange     = errors.New("length outside supported range")
	ErrInvalidHeader   = errors.New("malformed length header")
	ErrTagRange        = errors.New("tag outside supported range")
	ErrUnknownTag      = errors.New("tag matches no field")
	ErrRepeatedTag     = errors.New("tag repeated")
	ErrUnknownBit      = errors.New("bit matches no field")
	ErrMissingRequired = errors.New("required field missing")
	ErrShortBuffer     = errors.New("unexpected end of data")
	ErrTrailingBytes   = errors.New("unconsumed bytes")
	ErrBitmap          = errors.New("malformed bitmap")
)

// Snapshot errors.
var (
	// ErrMarshal indicates the codec failed to marshal a snapshot.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnmarshal indicates the codec failed to unmarshal a snapshot.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrEncrypt indicates sealing a snapshot failed.
	ErrEncrypt = errors.New("encrypt failed")

	// ErrDecrypt indicates opening a sealed snapshot failed.
	ErrDecrypt = errors.New("decrypt failed")

	// ErrInvalidKey indicates an encryption key has invalid size or format.
	ErrInvalidKey = errors.New("invalid key")
)

// Schema document errors.
var (
	// ErrUnknownStrategy indicates a schema document names a strategy the catalog does not hold.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrInvalidDocument indicates a schema document that cannot be parsed.
	ErrInvalidDocument = errors.New("invalid schema document")
)

// DefinitionError represents a structural schema error found while building.
type DefinitionError struct {
	Err    error  // Underlying sentinel error (ErrDuplicateName, etc.)
	Path   string // Dotted path of the offending field
	Detail string // Extra context, may be empty
}

func (e *DefinitionError) Error() string {
	msg := e.Err.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s (field %s)", msg, e.Path)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// PathError represents a failure to resolve a value path.
type PathError struct {
	Err  error    // ErrUnknownField, ErrNotFound or ErrNotLeaf
	Path []string // Path as given by the caller
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), joinPath(e.Path))
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// CodecError represents a pack/unpack failure. It carries the path of the
// field being processed and the absolute byte offset where it happened.
type CodecError struct {
	Err    error  // Underlying sentinel error (ErrTooLong, ErrTrailingBytes, etc.)
	Path   string // Dotted path of the field, empty for the root
	Offset int    // Byte offset into the packed message, -1 when not packing
	Cause  error  // Original error from a strategy, may be nil
}

func (e *CodecError) Error() string {
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	msg := fmt.Sprintf("%s (field %s)", e.Err.Error(), path)
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d (field %s)", e.Err.Error(), e.Offset, path)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// SnapshotError represents an export/import failure.
type SnapshotError struct {
	Err         error  // ErrMarshal, ErrUnmarshal, ErrEncrypt, ErrDecrypt
	ContentType string // Content type of the snapshot codec
	Cause       error  // Original error from the codec
}

func (e *SnapshotError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Err.Error(), e.ContentType, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), e.ContentType)
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches
// ErrUnmarshal as well as an ErrUnknownField raised while restoring.
func (e *SnapshotError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// newDefinitionError creates a DefinitionError for schema validation failures.
func newDefinitionError(sentinel error, path, detail string) error {
	return &DefinitionError{
		Err:    sentinel,
		Path:   path,
		Detail: detail,
	}
}

// newPathError creates a PathError for value resolution failures.
func newPathError(sentinel error, path []string) error {
	return &PathError{
		Err:  sentinel,
		Path: append([]string(nil), path...),
	}
}

// newCodecError creates a CodecError for pack/unpack failures. When cause
// already wraps a codec sentinel (strategies return those), that sentinel is
// used so errors.Is matches the specific condition.
func newCodecError(sentinel error, path string, offset int, cause error) error {
	if cause != nil {
		for _, s := range strategySentinels {
			if errors.Is(cause, s) {
				sentinel = s
				break
			}
		}
	}
	return &CodecError{
		Err:    sentinel,
		Path:   path,
		Offset: offset,
		Cause:  cause,
	}
}

// newSnapshotError creates a SnapshotError for export/import failures.
func newSnapshotError(sentinel error, contentType string, cause error) error {
	return &SnapshotError{
		Err:         sentinel,
		ContentType: contentType,
		Cause:       cause,
	}
}

// strategySentinels are the sentinels strategies may wrap in their errors.
var strategySentinels = []error{
	ErrTagRange,
	ErrLengthRange,
	ErrInvalidHeader,
	ErrInvalidValue,
	ErrBitmap,
	ErrShortBuffer,
}

func joinPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, ".")
}
