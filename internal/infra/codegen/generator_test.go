package codegen

import (
	"strings"
	"testing"

	"bloom/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_LengthAndCharset(t *testing.T) {
	gen := New()

	code, err := gen.Generate(service.CodeCharset, 16)
	require.NoError(t, err)
	assert.Len(t, code, 16)

	for _, c := range code {
		assert.True(t, strings.ContainsRune(service.CodeCharset, c),
			"character %q not in charset", c)
	}
}

func TestGenerate_ExcludesAmbiguousCharacters(t *testing.T) {
	gen := New()

	// Enough draws that every charset position is overwhelmingly likely to
	// appear; none of them may be an ambiguous character.
	for range 200 {
		code, err := gen.Generate(service.CodeCharset, 16)
		require.NoError(t, err)
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "1")
	}
}

func TestGenerate_HexCharset(t *testing.T) {
	gen := New()

	code, err := gen.Generate(service.HexCharset, 4)
	require.NoError(t, err)
	assert.Len(t, code, 4)
	for _, c := range code {
		assert.True(t, strings.ContainsRune(service.HexCharset, c))
	}
}

func TestGenerate_CollisionResistance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping collision sweep in short mode")
	}

	gen := New()
	seen := make(map[string]struct{}, 100_000)
	for range 100_000 {
		code, err := gen.Generate(service.CodeCharset, 16)
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s", code)
		seen[code] = struct{}{}
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	gen := New()

	_, err := gen.Generate(service.CodeCharset, 0)
	assert.Error(t, err)

	_, err = gen.Generate("", 8)
	assert.Error(t, err)
}
