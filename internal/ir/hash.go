package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainStructure    = "finrel/structure/v1"
	DomainHomomorphism = "finrel/homomorphism/v1"
	DomainFunction     = "finrel/function/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash computes the content-addressed ID of an encoded object under
// the given domain. The object is serialized with MarshalCanonical, so two
// structurally equal objects always hash identically.
func ContentHash(domain string, obj IRObject) (string, error) {
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ContentHash(%s): failed to marshal: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// MustContentHash is like ContentHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustContentHash(domain string, obj IRObject) string {
	id, err := ContentHash(domain, obj)
	if err != nil {
		panic(err)
	}
	return id
}

// IntArray converts a slice of ints into an IRArray of IRInt.
// Function value vectors are encoded this way.
func IntArray(values []int) IRArray {
	arr := make(IRArray, len(values))
	for i, v := range values {
		arr[i] = IRInt(v)
	}
	return arr
}
