package domain

import (
	"crypto/md5"
	"encoding/hex"
)

// Fingerprint returns the content fingerprint used for duplicate detection,
// both in-run and across runs.
func Fingerprint(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}
