package cache

import "encoding/base64"

// DeriveKey returns the cache key for normalized text. The encoding is
// reversible, so distinct texts never share a key.
func DeriveKey(normalized string) string {
	return base64.StdEncoding.EncodeToString([]byte(normalized))
}
