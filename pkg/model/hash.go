package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// TitleHash normalizes a title (lowercase, collapsed whitespace) and returns
// a short hex digest, used both for the paper synthetic key (§3) and for
// cross-source dedup by title (§4.2).
func TitleHash(title string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(title), " "))
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:8])
}
