package isomsg

import (
	"errors"
	"sync"
	"testing"
)

func TestNewCatalog_Builtins(t *testing.T) {
	c := NewCatalog()

	if _, err := c.Tag(TagBinary, Params{}); err != nil {
		t.Errorf("Tag(%q) error: %v", TagBinary, err)
	}
	if _, err := c.Length(LengthBCD, Params{Size: 2}); err != nil {
		t.Errorf("Length(%q) error: %v", LengthBCD, err)
	}
	if _, err := c.Body(BodyEBCDIC, Params{}); err != nil {
		t.Errorf("Body(%q) error: %v", BodyEBCDIC, err)
	}
	if _, err := c.Bitmap(BitmapExtended, Params{Block: 8, Blocks: 2}); err != nil {
		t.Errorf("Bitmap(%q) error: %v", BitmapExtended, err)
	}
	if _, err := c.Masker(MaskPAN, Params{}); err != nil {
		t.Errorf("Masker(%q) error: %v", MaskPAN, err)
	}
	if _, err := c.Stringer(StringHex, Params{}); err != nil {
		t.Errorf("Stringer(%q) error: %v", StringHex, err)
	}
}

func TestCatalog_Unknown(t *testing.T) {
	c := NewCatalog()

	_, err := c.Body("zoned", Params{})
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Body(unknown) error = %v, want ErrUnknownStrategy", err)
	}
	var de *DefinitionError
	if !errors.As(err, &de) || de.Detail != "body zoned" {
		t.Errorf("error detail = %+v", de)
	}
}

func TestCatalog_Register(t *testing.T) {
	c := NewCatalog()
	custom := FullMasker('X')
	c.RegisterMasker("blackout", func(Params) (Masker, error) { return custom, nil })

	m, err := c.Masker("blackout", Params{})
	if err != nil {
		t.Fatalf("Masker() error: %v", err)
	}
	if m != custom {
		t.Error("Masker() should return the registered instance")
	}
}

func TestCatalog_Replace(t *testing.T) {
	c := NewCatalog()
	c.RegisterStringer(StringDefault, func(Params) (Stringer, error) {
		return StringerFunc(func(any) string { return "x" }), nil
	})

	s, _ := c.Stringer(StringDefault, Params{})
	if got := s.Convert("anything"); got != "x" {
		t.Errorf("replaced stringer Convert() = %q", got)
	}
}

func TestCatalog_Independent(t *testing.T) {
	a, b := NewCatalog(), NewCatalog()
	a.RegisterBody("only-a", func(Params) (BodyCodec, error) { return Binary(), nil })

	if _, err := b.Body("only-a", Params{}); err == nil {
		t.Error("catalogs should not share registrations")
	}
}

func TestCatalog_Concurrent(_ *testing.T) {
	c := NewCatalog()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.RegisterBody("bin", func(Params) (BodyCodec, error) { return Binary(), nil })
		}()
		go func() {
			defer wg.Done()
			_, _ = c.Body(BodyBinary, Params{})
		}()
	}
	wg.Wait()
}
