package core

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Hash is a content fingerprint rendered as 16 lowercase hex digits
type Hash string

// NewHash fingerprints data with xxhash64
func NewHash(data []byte) Hash {
	return hashFromSum(xxhash.Sum64(data))
}

// NewHashString fingerprints s without copying it
func NewHashString(s string) Hash {
	return hashFromSum(xxhash.Sum64String(s))
}

func hashFromSum(sum uint64) Hash {
	h := strconv.FormatUint(sum, 16)
	for len(h) < 16 {
		h = "0" + h
	}
	return Hash(h)
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}
