package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"lukechampine.com/blake3"
)

// Hasher is the digest applied to canonical encodings.
type Hasher interface {
	Name() string
	Sum(data []byte) []byte
}

type sha256Hasher struct{}

func (sha256Hasher) Name() string { return "sha256" }

func (sha256Hasher) Sum(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

type blake3Hasher struct{}

func (blake3Hasher) Name() string { return "blake3" }

func (blake3Hasher) Sum(data []byte) []byte {
	h := blake3.Sum256(data)
	return h[:]
}

var (
	// SHA256 is the default hasher.
	SHA256 Hasher = sha256Hasher{}
	// BLAKE3 is a 256-bit BLAKE3 hasher.
	BLAKE3 Hasher = blake3Hasher{}
)

// HasherByName returns the hasher registered under name.
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SHA256.Name():
		return SHA256, nil
	case BLAKE3.Name():
		return BLAKE3, nil
	default:
		return nil, errors.Errorf("unknown hash algorithm %q", name)
	}
}

// LinkHash computes the hex digest of r's canonical encoding.
func LinkHash(h Hasher, r Record) string {
	return hex.EncodeToString(h.Sum(CanonicalEncode(r)))
}
