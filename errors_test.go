package isomsg

import (
	"errors"
	"fmt"
	"testing"
)

func TestDefinitionError_Is(t *testing.T) {
	err := newDefinitionError(ErrDuplicateName, "fields.pan", "")

	if !errors.Is(err, ErrDuplicateName) {
		t.Error("DefinitionError should unwrap to ErrDuplicateName")
	}
	if errors.Is(err, ErrDuplicateTag) {
		t.Error("DefinitionError should not match ErrDuplicateTag")
	}
}

func TestDefinitionError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "path and detail",
			err:  newDefinitionError(ErrInvalidLength, "fields.pan", "max 2 less than min 4"),
			want: "invalid length bounds (field fields.pan): max 2 less than min 4",
		},
		{
			name: "path only",
			err:  newDefinitionError(ErrMissingBodyCodec, "mti", ""),
			want: "missing body codec (field mti)",
		},
		{
			name: "root",
			err:  newDefinitionError(ErrBuilderMisuse, "", "Parent called at the root"),
			want: "builder misuse: Parent called at the root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathError(t *testing.T) {
	path := []string{"fields", "nope"}
	err := newPathError(ErrUnknownField, path)
	path[1] = "changed"

	if !errors.Is(err, ErrUnknownField) {
		t.Error("PathError should unwrap to ErrUnknownField")
	}
	want := "unknown field: fields.nope"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	root := newPathError(ErrNotLeaf, nil)
	if got := root.Error(); got != "field is not a leaf: <root>" {
		t.Errorf("Error() = %q", got)
	}
}

func TestCodecError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "offset and cause",
			err:  newCodecError(ErrTooLong, "fields.pan", 12, errors.New("body is 11 bytes, max 10")),
			want: "body exceeds max length at offset 12 (field fields.pan): body is 11 bytes, max 10",
		},
		{
			name: "root without cause",
			err:  newCodecError(ErrTrailingBytes, "", 7, nil),
			want: "unconsumed bytes at offset 7 (field <root>)",
		},
		{
			name: "no offset",
			err:  newCodecError(ErrMissingRequired, "mti", -1, nil),
			want: "required field missing (field mti)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodecError_PrefersStrategySentinel(t *testing.T) {
	cause := fmt.Errorf("%w: tag 300 does not fit in 1 byte", ErrTagRange)
	err := newCodecError(ErrInvalidValue, "icc.atc", 4, cause)

	if !errors.Is(err, ErrTagRange) {
		t.Error("CodecError should take the sentinel wrapped by its cause")
	}
	if errors.Is(err, ErrInvalidValue) {
		t.Error("CodecError should not keep the generic sentinel")
	}

	var ce *CodecError
	if !errors.As(err, &ce) {
		t.Fatal("errors.As should find *CodecError")
	}
	if ce.Offset != 4 || ce.Path != "icc.atc" {
		t.Errorf("CodecError = %+v", ce)
	}
}

func TestSnapshotError(t *testing.T) {
	cause := newPathError(ErrUnknownField, []string{"ghost"})
	err := newSnapshotError(ErrUnmarshal, "application/json", cause)

	if !errors.Is(err, ErrUnmarshal) {
		t.Error("SnapshotError should match its sentinel")
	}
	if !errors.Is(err, ErrUnknownField) {
		t.Error("SnapshotError should match the sentinel of its cause")
	}
	want := "unmarshal failed (application/json): unknown field: ghost"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := newSnapshotError(ErrMarshal, "application/bson", nil)
	if got := bare.Error(); got != "marshal failed (application/bson)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorsAs(t *testing.T) {
	var def *DefinitionError
	if !errors.As(newDefinitionError(ErrDuplicateBit, "fields.b", ""), &def) {
		t.Error("errors.As should find *DefinitionError")
	}
	var pe *PathError
	if !errors.As(newPathError(ErrNotFound, []string{"a"}), &pe) {
		t.Error("errors.As should find *PathError")
	}
	var se *SnapshotError
	if !errors.As(newSnapshotError(ErrEncrypt, "x", nil), &se) {
		t.Error("errors.As should find *SnapshotError")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrDuplicateName, ErrDuplicateTag, ErrDuplicateBit, ErrMissingName,
		ErrMissingBodyCodec, ErrMissingLengthCodec, ErrMissingBitmapCodec,
		ErrInvalidLength, ErrInvalidKind, ErrInvalidBit, ErrMixedChildren,
		ErrBuilderMisuse, ErrUnknownField, ErrNotFound, ErrNotLeaf,
		ErrSchemaMismatch, ErrInvalidValue, ErrLengthMismatch, ErrTooLong,
		ErrTooShort, ErrLengthRange, ErrInvalidHeader, ErrTagRange,
		ErrUnknownTag, ErrRepeatedTag, ErrUnknownBit, ErrMissingRequired,
		ErrShortBuffer, ErrTrailingBytes, ErrBitmap, ErrMarshal, ErrUnmarshal,
		ErrEncrypt, ErrDecrypt, ErrInvalidKey, ErrUnknownStrategy,
		ErrInvalidDocument,
	}

	seen := make(map[string]bool)
	for _, err := range sentinels {
		msg := err.Error()
		if seen[msg] {
			t.Errorf("duplicate sentinel message %q", msg)
		}
		seen[msg] = true
	}
}
