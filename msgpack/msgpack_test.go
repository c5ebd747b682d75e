package msgpack

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func snapshot() map[string]any {
	return map[string]any{
		"mti": "0100",
		"fields": map[string]any{
			"pan":    "4111111111111111",
			"amount": "000000001000",
			"icc": map[string]any{
				"9F36": "0001",
			},
		},
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := New()

	data, err := c.Marshal(snapshot())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored map[string]any
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if diff := cmp.Diff(snapshot(), restored); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v map[string]any
	if err := c.Unmarshal([]byte("not msgpack"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestMarshalBinary(t *testing.T) {
	c := New()

	data, err := c.Marshal(snapshot())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	// MessagePack is binary, should not be valid UTF-8 JSON
	if data[0] == '{' {
		t.Error("MessagePack output should be binary, not JSON")
	}
}
