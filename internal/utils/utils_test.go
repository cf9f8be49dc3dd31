package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestWriteFileAtomic_CreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "out.json"), []byte("x"), 0o600)
	assert.Error(t, err)
}

func TestRandomString(t *testing.T) {
	g := NewPasswordGenerator(nil)

	tests := []struct {
		name    string
		classes CharClasses
		allowed string
	}{
		{name: "letters", classes: CharClasses{Letters: true}, allowed: lowerChars},
		{name: "capitals", classes: CharClasses{Capitals: true}, allowed: upperChars},
		{name: "numbers", classes: CharClasses{Numbers: true}, allowed: digitChars},
		{name: "special", classes: CharClasses{Special: true}, allowed: specialChars},
		{
			name:    "all",
			classes: CharClasses{Letters: true, Capitals: true, Numbers: true, Special: true},
			allowed: lowerChars + upperChars + digitChars + specialChars,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := g.RandomString(64, tt.classes)
			require.NoError(t, err)
			assert.Len(t, s, 64)
			for _, r := range s {
				assert.True(t, strings.ContainsRune(tt.allowed, r), "unexpected rune %q", r)
			}
		})
	}
}

func TestRandomString_Errors(t *testing.T) {
	g := NewPasswordGenerator(nil)

	_, err := g.RandomString(10, CharClasses{})
	assert.ErrorIs(t, err, ErrEmptyCharset)

	_, err = g.RandomString(-1, CharClasses{Letters: true})
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = NewPasswordGenerator(failingReader{}).RandomString(4, CharClasses{Letters: true})
	assert.Error(t, err)

	s, err := g.RandomString(0, CharClasses{Letters: true})
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	a, b := g.Generate(), g.Generate()
	assert.NotEqual(t, a, b)

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}
