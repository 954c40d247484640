// Package reverse reverses byte strings.
//
// Reversal is byte-wise: a multi-byte UTF-8 sequence comes out with its bytes in
// opposite order. Callers that need rune-aware reversal should not use this package.
package reverse

// String returns s with its bytes in reverse order. The input is never modified.
func String(s string) string {
	if len(s) < 2 {
		return s
	}
	return string(swap([]byte(s)))
}

func swap(b []byte) []byte {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}
