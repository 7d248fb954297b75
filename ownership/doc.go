// Package ownership gates ledger appends behind proof of identity.
//
// A caller asks the Gate for a challenge of the form
//
//	<identity>:<unixSeconds>:<domainTag>
//
// signs that exact string with the key behind identity, and hands the
// identity, challenge and signature back to Verify. A challenge is valid for
// a fixed window (five minutes by default) and is consumed by its first
// verification attempt, successful or not.
//
// How a signature is checked against an identity is the job of a Verifier.
// Three schemes are provided: Ethereum personal messages (identity is a
// 0x address), Ed25519 (identity is the hex public key) and Schnorr over
// the kyber Ed25519 suite (identity is the hex encoded point).
package ownership
