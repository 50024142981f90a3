package lib

import (
	"crypto/md5"
	"encoding/hex"
)

// Hash returns the first 12 hex characters of the MD5 of text.
func Hash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])[:12]
}
