package ownership

import "github.com/pkg/errors"

var (
	// ErrChallengeNotFound is returned when no outstanding challenge matches
	// the submitted one, including every attempt to replay a challenge.
	ErrChallengeNotFound = errors.New("ownership: challenge not found")
	// ErrChallengeExpired is returned when the challenge is older than the
	// validity window.
	ErrChallengeExpired = errors.New("ownership: challenge expired")
	// ErrSignatureInvalid is returned when the signature does not verify
	// against the identity for the exact challenge string.
	ErrSignatureInvalid = errors.New("ownership: signature invalid")
	// ErrInvalidIdentity is returned for identities a challenge cannot carry.
	ErrInvalidIdentity = errors.New("ownership: invalid identity")
	// ErrMalformedChallenge is returned when a challenge does not follow the
	// identity:timestamp:tag layout.
	ErrMalformedChallenge = errors.New("ownership: malformed challenge")
)
