package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	d, err := NewKeyDeriver(testHashIterations, PRFSHA256)
	if err != nil {
		t.Fatalf("NewKeyDeriver error: %v", err)
	}

	k1, err := d.DeriveKey("test123", "Atest$*(!@#$)testa")
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, _ := d.DeriveKey("test123", "Atest$*(!@#$)testa")

	if len(k1) != KeySize {
		t.Fatalf("key length = %d, want %d", len(k1), KeySize)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to match for same password+salt")
	}
}

func TestDeriveKey_InputsChangeKey(t *testing.T) {
	d, _ := NewKeyDeriver(testHashIterations, PRFSHA256)

	base, _ := d.DeriveKey("password", "salt-one-1")
	otherSalt, _ := d.DeriveKey("password", "salt-two-2")
	otherPassword, _ := d.DeriveKey("passwore", "salt-one-1")

	if bytes.Equal(base, otherSalt) {
		t.Fatalf("different salts must give different keys")
	}
	if bytes.Equal(base, otherPassword) {
		t.Fatalf("different passwords must give different keys")
	}
}

// RFC 6070 case 5; PBKDF2 output blocks do not depend on dkLen, so the
// first 25 bytes of a 32-byte key equal the published 25-byte result.
func TestDeriveKey_SHA1KnownVector(t *testing.T) {
	d, err := NewKeyDeriver(4096, PRFSHA1)
	if err != nil {
		t.Fatalf("NewKeyDeriver error: %v", err)
	}

	key, err := d.DeriveKey("passwordPASSWORDpassword", "saltSALTsaltSALTsaltSALTsaltSALTsalt")
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	want, _ := hex.DecodeString("3d2eec4fe41c849b80c8d83662c0e44a8b291a964cf2f07038")
	if !bytes.Equal(key[:len(want)], want) {
		t.Fatalf("key prefix = %x, want %x", key[:len(want)], want)
	}
}

func TestDeriveKey_InvalidArguments(t *testing.T) {
	d, _ := NewKeyDeriver(testHashIterations, PRFSHA256)

	if _, err := d.DeriveKey("", "long-enough-salt"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty password error = %v, want ErrInvalidArgument", err)
	}
	if _, err := d.DeriveKey("password", "short"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("short salt error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewKeyDeriver(0, PRFSHA256); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero iterations error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewKeyDeriver(1, PRF("blake")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("unknown prf error = %v, want ErrInvalidArgument", err)
	}
}
