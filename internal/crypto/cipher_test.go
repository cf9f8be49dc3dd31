package crypto

import (
	"bytes"
	"crypto/aes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

var modes = []Mode{ModeCBC, ModeGCM}

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, KeySize)
}

func newTestCipher(t *testing.T, mode Mode, key []byte) Cipher {
	t.Helper()
	c, err := NewCipher(mode, key, nil)
	if err != nil {
		t.Fatalf("NewCipher(%s) error: %v", mode, err)
	}
	return c
}

func TestCipher_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		[]byte("a"),
		[]byte("exactly sixteen!"),
		[]byte("Hello, World!"),
		bytes.Repeat([]byte{0xFF}, 1000),
	}

	for _, mode := range modes {
		c := newTestCipher(t, mode, testKey(0x11))
		for _, in := range inputs {
			blob, err := c.Encrypt(in)
			if err != nil {
				t.Fatalf("%s Encrypt error: %v", mode, err)
			}
			out, err := c.Decrypt(blob)
			if err != nil {
				t.Fatalf("%s Decrypt error: %v", mode, err)
			}
			if !bytes.Equal(out, in) {
				t.Fatalf("%s round trip = %q, want %q", mode, out, in)
			}
		}
	}
}

func TestCipher_StringRoundTrip(t *testing.T) {
	for _, mode := range modes {
		c := newTestCipher(t, mode, testKey(0x22))
		for _, in := range []string{"", "Test", "пароль 🔑"} {
			enc, err := c.EncryptString(in)
			if err != nil {
				t.Fatalf("%s EncryptString error: %v", mode, err)
			}
			if _, err := base64.StdEncoding.DecodeString(enc); err != nil {
				t.Fatalf("%s output is not std base64: %v", mode, err)
			}
			out, err := c.DecryptString(enc)
			if err != nil {
				t.Fatalf("%s DecryptString error: %v", mode, err)
			}
			if out != in {
				t.Fatalf("%s string round trip = %q, want %q", mode, out, in)
			}
		}
	}
}

func TestCipher_FreshIVPerCall(t *testing.T) {
	for _, mode := range modes {
		c := newTestCipher(t, mode, testKey(0x33))
		a, _ := c.Encrypt([]byte("same"))
		b, _ := c.Encrypt([]byte("same"))
		if bytes.Equal(a, b) {
			t.Fatalf("%s: equal ciphertexts for equal plaintexts", mode)
		}
	}
}

func TestCipher_CBCLayout(t *testing.T) {
	c := newTestCipher(t, ModeCBC, testKey(0x44))

	blob, _ := c.Encrypt([]byte("0123456789"))
	if len(blob) != aes.BlockSize*2 {
		t.Fatalf("blob length = %d, want %d", len(blob), aes.BlockSize*2)
	}

	blob, _ = c.Encrypt(make([]byte, aes.BlockSize))
	if len(blob) != aes.BlockSize*3 {
		t.Fatalf("full-block plaintext must gain a padding block, got %d", len(blob))
	}
}

// SP 800-38A F.2.5, first block.
func TestCipher_CBCKnownVector(t *testing.T) {
	key, _ := hex.DecodeString("603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4")
	iv, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	pt, _ := hex.DecodeString("6bc1bee22e409f96e93d7e117393172a")
	want, _ := hex.DecodeString("f58c4c04d6e5f1ba779eabfb5f7bfbd6")

	c, err := NewCipher(ModeCBC, key, bytes.NewReader(iv))
	if err != nil {
		t.Fatalf("NewCipher error: %v", err)
	}

	blob, err := c.Encrypt(pt)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if !bytes.Equal(blob[:aes.BlockSize], iv) {
		t.Fatalf("blob must start with the IV")
	}
	if !bytes.Equal(blob[aes.BlockSize:2*aes.BlockSize], want) {
		t.Fatalf("first block = %x, want %x", blob[aes.BlockSize:2*aes.BlockSize], want)
	}
}

func TestCipher_TooShort(t *testing.T) {
	for _, mode := range modes {
		c := newTestCipher(t, mode, testKey(0x55))
		for _, n := range []int{0, 1, 11} {
			if _, err := c.Decrypt(make([]byte, n)); !errors.Is(err, ErrCiphertextTooShort) {
				t.Fatalf("%s Decrypt(%d bytes) error = %v, want ErrCiphertextTooShort", mode, n, err)
			}
		}
	}
}

func TestCipher_CBCCorruptBlobs(t *testing.T) {
	c := newTestCipher(t, ModeCBC, testKey(0x66))
	blob, _ := c.Encrypt([]byte("payload"))

	tests := []struct {
		name string
		blob []byte
	}{
		{"iv only", blob[:aes.BlockSize]},
		{"misaligned", append(bytes.Clone(blob), 0x00)},
		{"truncated block", blob[:len(blob)-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Decrypt(tt.blob); !errors.Is(err, ErrDecryptionFailed) {
				t.Fatalf("error = %v, want ErrDecryptionFailed", err)
			}
		})
	}
}

func TestCipher_GCMTamperDetected(t *testing.T) {
	c := newTestCipher(t, ModeGCM, testKey(0x77))
	blob, _ := c.Encrypt([]byte("payload"))

	for i := range blob {
		tampered := bytes.Clone(blob)
		tampered[i] ^= 0x80
		if _, err := c.Decrypt(tampered); !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("byte %d flipped: error = %v, want ErrDecryptionFailed", i, err)
		}
	}
}

func TestCipher_WrongKey(t *testing.T) {
	plaintext := []byte("secret value that spans blocks")

	for _, mode := range modes {
		enc := newTestCipher(t, mode, testKey(0x01))
		dec := newTestCipher(t, mode, testKey(0x02))

		blob, _ := enc.Encrypt(plaintext)
		out, err := dec.Decrypt(blob)
		// CBC can occasionally unpad garbage, but never recover the input.
		if err == nil && bytes.Equal(out, plaintext) {
			t.Fatalf("%s: wrong key recovered the plaintext", mode)
		}
		if mode == ModeGCM && !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("gcm wrong key error = %v, want ErrDecryptionFailed", err)
		}
	}
}

func TestCipher_DecryptStringInvalidBase64(t *testing.T) {
	for _, mode := range modes {
		c := newTestCipher(t, mode, testKey(0x88))
		if _, err := c.DecryptString("***"); !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("%s error = %v, want ErrDecryptionFailed", mode, err)
		}
	}
}

func TestCipher_Destroy(t *testing.T) {
	for _, mode := range modes {
		key := testKey(0x99)
		c := newTestCipher(t, mode, key)
		blob, _ := c.Encrypt([]byte("x"))

		c.Destroy()

		if !bytes.Equal(key, testKey(0x99)) {
			t.Fatalf("%s: Destroy must not touch the caller's key", mode)
		}
		if _, err := c.Encrypt([]byte("x")); !errors.Is(err, ErrCipherDestroyed) {
			t.Fatalf("%s Encrypt after Destroy error = %v", mode, err)
		}
		if _, err := c.Decrypt(blob); !errors.Is(err, ErrCipherDestroyed) {
			t.Fatalf("%s Decrypt after Destroy error = %v", mode, err)
		}
		c.Destroy()
	}
}

func TestCipher_RandomFailure(t *testing.T) {
	for _, mode := range modes {
		c, _ := NewCipher(mode, testKey(0x10), failingReader{})
		if _, err := c.Encrypt([]byte("x")); err == nil {
			t.Fatalf("%s: expected error from failing random source", mode)
		}
	}
}

func TestNewCipher_InvalidArguments(t *testing.T) {
	if _, err := NewCipher(ModeCBC, make([]byte, 16), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("short key error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewCipher(ModeGCM, nil, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil key error = %v, want ErrInvalidArgument", err)
	}
	_, err := NewCipher(Mode("ecb"), testKey(1), nil)
	if !errors.Is(err, ErrInvalidArgument) || !strings.Contains(err.Error(), "ecb") {
		t.Fatalf("unknown mode error = %v", err)
	}
}

func TestNewCipherFactory(t *testing.T) {
	if _, err := NewCipherFactory(Mode("ofb"), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("unknown mode error = %v, want ErrInvalidArgument", err)
	}

	factory, err := NewCipherFactory(ModeGCM, nil)
	if err != nil {
		t.Fatalf("NewCipherFactory error: %v", err)
	}
	c, err := factory(testKey(0x0A))
	if err != nil {
		t.Fatalf("factory error: %v", err)
	}
	blob, _ := c.Encrypt([]byte("x"))

	// GCM blob: 12-byte nonce, 1 byte, 16-byte tag.
	if len(blob) != 12+1+16 {
		t.Fatalf("factory built wrong mode, blob length %d", len(blob))
	}
}
