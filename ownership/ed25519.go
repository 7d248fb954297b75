package ownership

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/pkg/errors"
)

// Ed25519Verifier treats the identity as a hex encoded Ed25519 public key.
type Ed25519Verifier struct{}

// Verify implements Verifier.
func (Ed25519Verifier) Verify(identity string, message, signature []byte) error {
	if len(signature) == 0 {
		return errors.Wrap(ErrSignatureInvalid, "missing signature")
	}
	pub, err := hex.DecodeString(identity)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return errors.Wrapf(ErrSignatureInvalid, "identity %q is not an ed25519 public key", identity)
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), message, signature) {
		return ErrSignatureInvalid
	}
	return nil
}

func generateEd25519Key() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return KeyPair{}, errors.Wrap(err, "generate ed25519 key")
	}
	return KeyPair{
		Scheme:     SchemeEd25519,
		Identity:   hex.EncodeToString(pub),
		PrivateKey: hex.EncodeToString(priv.Seed()),
	}, nil
}

// signEd25519 expects the hex encoded 32-byte seed.
func signEd25519(privateKey string, message []byte) ([]byte, error) {
	seed, err := hex.DecodeString(privateKey)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, errors.New("ed25519 private key must be a hex encoded 32-byte seed")
	}
	return ed25519.Sign(ed25519.NewKeyFromSeed(seed), message), nil
}
