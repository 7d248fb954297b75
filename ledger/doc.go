// Package ledger implements a single-writer, append-only, hash-chained
// record store.
//
// # Core Components
//
// Store: the ordered sequence of sealed records. It owns the sequence
// exclusively and serialises every append against every other append.
//
// Record: one sealed entry. Its LinkHash is the digest of its canonical
// encoding, and its PreviousLinkHash is the LinkHash of its predecessor.
//
// Validate: a single pass over a sequence that reports every integrity
// violation it finds instead of stopping at the first one.
//
// # Security Properties
//
// The chain provides:
//   - Immutability: sealed records are handed out as copies only
//   - Verifiability: any snapshot can be re-checked with Validate
//   - Tamper detection: changing any field of a sealed record breaks its
//     LinkHash and the link of its successor
//
// # Usage
//
// Create a store, call Initialize to seal the genesis record, then Append
// payloads. Validate may be called at any time; violations are returned as
// data and are never repaired.
package ledger
