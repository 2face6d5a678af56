package entity

import "strings"

// giftCardGroupSize is the display grouping for gift card codes
// (XXXX-XXXX-XXXX-XXXX).
const giftCardGroupSize = 4

// NormalizeCode canonicalizes a user-entered code before any lookup or
// comparison: separators and whitespace are stripped and the result is
// uppercased. It is the inverse of FormatGiftCardCode.
func NormalizeCode(code string) string {
	var normalized strings.Builder
	normalized.Grow(len(code))

	for _, r := range code {
		switch r {
		case '-', ' ', '\t':
			continue
		}
		normalized.WriteRune(r)
	}

	return strings.ToUpper(normalized.String())
}

// FormatGiftCardCode renders a normalized gift card code for display as
// dash-separated groups of four. The transform is pure and reversible via
// NormalizeCode.
func FormatGiftCardCode(code string) string {
	if len(code) <= giftCardGroupSize {
		return code
	}

	groups := make([]string, 0, (len(code)+giftCardGroupSize-1)/giftCardGroupSize)
	for i := 0; i < len(code); i += giftCardGroupSize {
		end := i + giftCardGroupSize
		if end > len(code) {
			end = len(code)
		}
		groups = append(groups, code[i:end])
	}

	return strings.Join(groups, "-")
}
