package bson

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
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
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
	if err := c.Unmarshal([]byte("invalid bson"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestNestedDocumentsAreMaps(t *testing.T) {
	c := New()

	data, err := c.Marshal(snapshot())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var got map[string]any
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	fields, ok := got["fields"].(map[string]any)
	if !ok {
		t.Fatalf("fields = %T, want map[string]any", got["fields"])
	}
	if _, ok := fields["icc"].(map[string]any); !ok {
		t.Errorf("fields.icc = %T, want map[string]any", fields["icc"])
	}
}

func TestMarshalRequiresDocument(t *testing.T) {
	c := New()

	if _, err := c.Marshal("0100"); err == nil {
		t.Error("Marshal(string) should return error")
	}
}
