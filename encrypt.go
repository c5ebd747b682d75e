package isomsg

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// Encryptor seals and opens snapshot bytes. aad is authenticated but not
// encrypted; Sealed passes the inner content type so a snapshot cannot be
// opened as another format.
type Encryptor interface {
	Encrypt(plaintext, aad []byte) ([]byte, error)
	Decrypt(ciphertext, aad []byte) ([]byte, error)
}

type aesEncryptor struct {
	gcm cipher.AEAD
}

// AES returns an AES-GCM encryptor. Key must be 16, 24, or 32 bytes for
// AES-128, AES-192, or AES-256. A random nonce is prepended to each
// ciphertext.
func AES(key []byte) (Encryptor, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKey, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aesEncryptor{gcm: gcm}, nil
}

func (e *aesEncryptor) Encrypt(plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncrypt, err)
	}
	return e.gcm.Seal(nonce, nonce, plaintext, aad), nil
}

func (e *aesEncryptor) Decrypt(ciphertext, aad []byte) ([]byte, error) {
	n := e.gcm.NonceSize()
	if len(ciphertext) < n {
		return nil, fmt.Errorf("%w: ciphertext shorter than nonce", ErrDecrypt)
	}
	plaintext, err := e.gcm.Open(nil, ciphertext[:n], ciphertext[n:], aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	return plaintext, nil
}

// sealedCodec encrypts the output of another codec.
type sealedCodec struct {
	inner Codec
	enc   Encryptor
}

// Sealed wraps c so marshaled snapshots are encrypted with enc. Use it to
// keep captured messages at rest without exposing card data.
func Sealed(c Codec, enc Encryptor) Codec {
	return &sealedCodec{inner: c, enc: enc}
}

// ContentType reports the inner content type with a "+sealed" suffix.
func (s *sealedCodec) ContentType() string {
	return s.inner.ContentType() + "+sealed"
}

func (s *sealedCodec) Marshal(v any) ([]byte, error) {
	plain, err := s.inner.Marshal(v)
	if err != nil {
		return nil, err
	}
	out, err := s.enc.Encrypt(plain, []byte(s.inner.ContentType()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncrypt, err)
	}
	return out, nil
}

func (s *sealedCodec) Unmarshal(data []byte, v any) error {
	plain, err := s.enc.Decrypt(data, []byte(s.inner.ContentType()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	return s.inner.Unmarshal(plain, v)
}
