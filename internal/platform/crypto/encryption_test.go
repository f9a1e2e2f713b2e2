package crypto

import (
	"bytes"
	"strings"
	"testing"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	s, err := New(testKeyHex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestSealOpenRoundTrip(t *testing.T) {
	s := newTestSealer(t)
	if !s.Enabled() {
		t.Fatal("expected sealer to be enabled")
	}

	plain := "NIC-199012345V"
	sealed, err := s.Seal(plain)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte(plain)) {
		t.Fatal("sealed value must not contain plaintext")
	}

	got, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got != plain {
		t.Fatalf("round trip mismatch: got %q want %q", got, plain)
	}
}

func TestSealProducesFreshNonce(t *testing.T) {
	s := newTestSealer(t)

	first, err := s.Seal("same input")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	second, err := s.Seal("same input")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatal("two seals of the same value must differ")
	}
}

func TestDisabledSealerPassesThrough(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Enabled() {
		t.Fatal("empty key must leave the sealer disabled")
	}

	sealed, err := s.Seal("visible")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if string(sealed) != "visible" {
		t.Fatalf("expected pass-through, got %q", sealed)
	}
	got, err := s.Open([]byte("visible"))
	if err != nil || got != "visible" {
		t.Fatalf("expected pass-through open, got %q err %v", got, err)
	}
}

func TestNewRejectsWrongKeyLength(t *testing.T) {
	if _, err := New("73686f7274"); err == nil {
		t.Fatal("expected error for short hex key")
	}
	if _, err := New(strings.Repeat("x", 16)); err == nil {
		t.Fatal("expected error for 16 byte key")
	}
}

func TestOpenRejectsBadInput(t *testing.T) {
	s := newTestSealer(t)

	if _, err := s.Open([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatal("expected error for truncated input")
	}

	sealed, err := s.Seal("bank-0001")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := s.Open(sealed); err == nil {
		t.Fatal("expected error for tampered input")
	}
}

func TestOpenFallbackPrefersSealedColumn(t *testing.T) {
	s := newTestSealer(t)

	sealed, err := s.Seal("encrypted value")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if got := s.OpenFallback(sealed, "legacy value"); got != "encrypted value" {
		t.Fatalf("expected sealed column to win, got %q", got)
	}
	if got := s.OpenFallback(nil, "legacy value"); got != "legacy value" {
		t.Fatalf("expected plaintext fallback, got %q", got)
	}
	if got := s.OpenFallback([]byte{0x01, 0x02}, "legacy value"); got != "legacy value" {
		t.Fatalf("expected fallback on undecryptable column, got %q", got)
	}
}
