// Package codegen implements random code generation backed by crypto/rand.
package codegen

import (
	"crypto/rand"

	"bloom/internal/domain/service"

	"github.com/pkg/errors"
)

type cryptoGenerator struct{}

// New returns a CodeGenerator backed by the operating system CSPRNG.
func New() service.CodeGenerator {
	return &cryptoGenerator{}
}

// Generate draws length random bytes and maps each onto the charset by
// modulo. The charsets in use have 16 or 32 characters, both of which
// divide 256, so the mapping introduces no bias.
func (g *cryptoGenerator) Generate(charset string, length int) (string, error) {
	if length <= 0 {
		return "", errors.Errorf("invalid code length: %d", length)
	}
	if len(charset) == 0 {
		return "", errors.New("empty charset")
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = charset[int(b)%len(charset)]
	}

	return string(out), nil
}
