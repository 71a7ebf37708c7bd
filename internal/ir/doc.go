// Package ir provides the value representation shared by every finrel package.
//
// Attribute columns of a relational structure hold IRValues. The sealed value
// set keeps attribute comparison exact and deterministic:
//   - NO float types anywhere - use int64 for numbers
//   - Object keys are ordered by UTF-16 code units (RFC 8785)
//   - Canonical JSON is the only encoding used for content hashes
//
// ir imports nothing internal. Every other package may import it.
package ir
