package ownership

import (
	"strings"

	"github.com/pkg/errors"
)

// Verifier checks that signature was produced over message by the key
// behind identity.
type Verifier interface {
	Verify(identity string, message, signature []byte) error
}

// IdentityNormalizer is implemented by verifiers whose identities have
// more than one accepted spelling.
type IdentityNormalizer interface {
	NormalizeIdentity(identity string) string
}

// Scheme names a signature scheme.
type Scheme string

const (
	// SchemeEthereum verifies Ethereum personal-message signatures.
	SchemeEthereum Scheme = "ethereum"
	// SchemeEd25519 verifies plain Ed25519 signatures.
	SchemeEd25519 Scheme = "ed25519"
	// SchemeSchnorr verifies Schnorr signatures over the kyber Ed25519 suite.
	SchemeSchnorr Scheme = "schnorr"
)

// Schemes lists every supported scheme.
func Schemes() []Scheme {
	return []Scheme{SchemeEthereum, SchemeEd25519, SchemeSchnorr}
}

// ParseScheme maps a configuration string to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	for _, scheme := range Schemes() {
		if strings.EqualFold(strings.TrimSpace(s), string(scheme)) {
			return scheme, nil
		}
	}
	return "", errors.Errorf("unknown signature scheme %q", s)
}

// NewVerifier returns the verifier of scheme.
func NewVerifier(scheme Scheme) (Verifier, error) {
	switch scheme {
	case SchemeEthereum:
		return EthereumVerifier{}, nil
	case SchemeEd25519:
		return Ed25519Verifier{}, nil
	case SchemeSchnorr:
		return NewSchnorrVerifier(), nil
	default:
		return nil, errors.Errorf("unknown signature scheme %q", scheme)
	}
}

// KeyPair is a freshly generated key. PrivateKey is hex encoded in the
// scheme's native form and is what Sign expects.
type KeyPair struct {
	Scheme     Scheme `json:"scheme"`
	Identity   string `json:"identity"`
	PrivateKey string `json:"privateKey"`
}

// GenerateKey creates a key pair for scheme.
func GenerateKey(scheme Scheme) (KeyPair, error) {
	switch scheme {
	case SchemeEthereum:
		return generateEthereumKey()
	case SchemeEd25519:
		return generateEd25519Key()
	case SchemeSchnorr:
		return generateSchnorrKey()
	default:
		return KeyPair{}, errors.Errorf("unknown signature scheme %q", scheme)
	}
}

// Sign signs message with the hex encoded private key of scheme.
func Sign(scheme Scheme, privateKey string, message []byte) ([]byte, error) {
	switch scheme {
	case SchemeEthereum:
		return signEthereum(privateKey, message)
	case SchemeEd25519:
		return signEd25519(privateKey, message)
	case SchemeSchnorr:
		return signSchnorr(privateKey, message)
	default:
		return nil, errors.Errorf("unknown signature scheme %q", scheme)
	}
}
