package export

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ETag returns a stable digest of output: etag(a) == etag(b) iff a == b.
func ETag(output string) string {
	sum := blake2b.Sum256([]byte(output))
	return hex.EncodeToString(sum[:])[:16]
}

// Clamp truncates text to at most maxChars, appending the literal
// truncation marker when it does. A cap shorter than the marker keeps only
// the marker's trailing maxChars characters.
func Clamp(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	marker := "\n... (truncated)"
	if maxChars <= 0 {
		return ""
	}
	keep := maxChars - len(marker)
	if keep < 0 {
		return marker[len(marker)-maxChars:]
	}
	return text[:keep] + marker
}
