package testing

import (
	"context"
	"testing"
)

func TestTestKey(t *testing.T) {
	key := TestKey()
	if len(key) != 32 {
		t.Errorf("TestKey() length = %d, want 32", len(key))
	}
}

func TestTestEncryptor(t *testing.T) {
	enc := TestEncryptor()
	if enc == nil {
		t.Fatal("TestEncryptor() should not return nil")
	}

	plaintext := []byte("test")
	ciphertext, err := enc.Encrypt(plaintext, nil)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	decrypted, err := enc.Decrypt(ciphertext, nil)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if string(decrypted) != string(plaintext) {
		t.Errorf("round-trip failed")
	}
}

func TestAuthSchema(t *testing.T) {
	schema := AuthSchema()

	pan, ok := schema.Lookup("fields", "pan")
	if !ok {
		t.Fatal("fields.pan missing")
	}
	if pan.Bit() != 2 {
		t.Errorf("pan bit = %d, want 2", pan.Bit())
	}
	atc, ok := schema.Lookup("fields", "icc", "atc")
	if !ok {
		t.Fatal("fields.icc.atc missing")
	}
	if tag, _ := atc.TagNumber(); tag != TagATC {
		t.Errorf("atc tag = %X, want %X", tag, TagATC)
	}
}

func TestSampleAuthPacks(t *testing.T) {
	h := SampleAuth(AuthSchema())
	data, err := h.Pack(context.Background())
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if len(data) == 0 {
		t.Error("Pack() returned no bytes")
	}
}

func TestPath(t *testing.T) {
	got := Path("fields.icc.atc")
	if len(got) != 3 || got[0] != "fields" || got[2] != "atc" {
		t.Errorf("Path(%q) = %v", "fields.icc.atc", got)
	}
}
