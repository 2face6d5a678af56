// Package service defines the interfaces for infrastructure services the
// domain depends on, keeping the use case layer free of concrete drivers.
package service

// CodeCharset is the restricted alphabet shared by all human-typable codes.
// Visually ambiguous characters (I, O, 0, 1) are excluded.
const CodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// HexCharset is used for the short hex suffix of name-derived referral codes.
const HexCharset = "0123456789ABCDEF"

// CodeGenerator produces collision-resistant identifiers from a
// cryptographically secure random source. Uniqueness is NOT guaranteed by
// construction: callers enforce it with a bounded retry-with-lookup loop
// against the unique index.
type CodeGenerator interface {
	// Generate draws length bytes from the CSPRNG and maps each onto the
	// charset by modulo.
	Generate(charset string, length int) (string, error)
}
