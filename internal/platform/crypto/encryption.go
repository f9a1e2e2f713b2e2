// Package crypto seals sensitive columns with AES-GCM: employee national ids
// and bank accounts, and user MFA secrets.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Sealer turns string values into nonce-prefixed AES-GCM blobs. A Sealer
// built without a key passes values through unchanged so deployments can run
// before encryption at rest is rolled out.
type Sealer struct {
	aead cipher.AEAD
}

func New(key string) (*Sealer, error) {
	if strings.TrimSpace(key) == "" {
		return &Sealer{}, nil
	}
	material := keyMaterial(key)
	if len(material) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(material))
	}
	block, err := aes.NewCipher(material)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Enabled() bool {
	return s.aead != nil
}

func (s *Sealer) Seal(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	if s.aead == nil {
		return []byte(value), nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, []byte(value), nil), nil
}

func (s *Sealer) Open(sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	if s.aead == nil {
		return string(sealed), nil
	}
	if len(sealed) < s.aead.NonceSize() {
		return "", errors.New("sealed value shorter than nonce")
	}
	nonce, box := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, box, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// OpenFallback reads a dual-column value: the sealed column wins when
// present, the legacy plaintext column backs it up. Decrypt failures are
// logged and fall back rather than failing the whole row read.
func (s *Sealer) OpenFallback(sealed []byte, plain string) string {
	if len(sealed) == 0 {
		return plain
	}
	value, err := s.Open(sealed)
	if err != nil {
		slog.Warn("sealed column decrypt failed", "err", err)
		return plain
	}
	return value
}

// keyMaterial accepts hex, base64, or raw key bytes.
func keyMaterial(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding} {
		if decoded, err := enc.DecodeString(raw); err == nil {
			return decoded
		}
	}
	return []byte(raw)
}
