package lib

import (
	"crypto/sha1"
	"encoding/hex"
)

// CacheKey names the cache file of a document location.
func CacheKey(location string) string {
	hash := sha1.Sum([]byte(location))
	return hex.EncodeToString(hash[:])
}
