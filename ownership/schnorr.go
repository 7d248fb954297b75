package ownership

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"go.dedis.ch/kyber/v4/sign/schnorr"
	"go.dedis.ch/kyber/v4/suites"
)

// SchnorrVerifier treats the identity as a hex encoded point of the kyber
// Ed25519 suite.
type SchnorrVerifier struct {
	suite suites.Suite
}

// NewSchnorrVerifier returns a verifier over the Ed25519 suite.
func NewSchnorrVerifier() SchnorrVerifier {
	return SchnorrVerifier{suite: suites.MustFind("Ed25519")}
}

// Verify implements Verifier.
func (v SchnorrVerifier) Verify(identity string, message, signature []byte) error {
	raw, err := hex.DecodeString(identity)
	if err != nil {
		return errors.Wrapf(ErrSignatureInvalid, "identity %q is not hex", identity)
	}
	public := v.suite.Point()
	if err := public.UnmarshalBinary(raw); err != nil {
		return errors.Wrapf(ErrSignatureInvalid, "identity %q is not a point: %v", identity, err)
	}
	if err := schnorr.Verify(v.suite, public, message, signature); err != nil {
		return errors.Wrap(ErrSignatureInvalid, err.Error())
	}
	return nil
}

func generateSchnorrKey() (KeyPair, error) {
	suite := suites.MustFind("Ed25519")
	private := suite.Scalar().Pick(suite.RandomStream())
	public := suite.Point().Mul(private, nil)

	privBytes, err := private.MarshalBinary()
	if err != nil {
		return KeyPair{}, errors.Wrap(err, "marshal schnorr private key")
	}
	pubBytes, err := public.MarshalBinary()
	if err != nil {
		return KeyPair{}, errors.Wrap(err, "marshal schnorr public key")
	}
	return KeyPair{
		Scheme:     SchemeSchnorr,
		Identity:   hex.EncodeToString(pubBytes),
		PrivateKey: hex.EncodeToString(privBytes),
	}, nil
}

func signSchnorr(privateKey string, message []byte) ([]byte, error) {
	suite := suites.MustFind("Ed25519")
	raw, err := hex.DecodeString(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "decode schnorr private key")
	}
	private := suite.Scalar()
	if err := private.UnmarshalBinary(raw); err != nil {
		return nil, errors.Wrap(err, "parse schnorr private key")
	}
	return schnorr.Sign(suite, private, message)
}
