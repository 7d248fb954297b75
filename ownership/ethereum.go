package ownership

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// EthereumVerifier checks personal-message signatures (EIP-191, as
// produced by personal_sign) and compares the recovered signer with the
// identity, a hex address.
type EthereumVerifier struct{}

// Verify implements Verifier. Both the wallet form (v = 27/28) and the raw
// form (v = 0/1) of the recovery id are accepted.
func (EthereumVerifier) Verify(identity string, message, signature []byte) error {
	if !common.IsHexAddress(identity) {
		return errors.Wrapf(ErrSignatureInvalid, "identity %q is not an address", identity)
	}
	if len(signature) != crypto.SignatureLength {
		return errors.Wrapf(ErrSignatureInvalid, "signature is %d bytes, want %d", len(signature), crypto.SignatureLength)
	}
	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return errors.Wrap(ErrSignatureInvalid, err.Error())
	}
	if crypto.PubkeyToAddress(*pub) != common.HexToAddress(identity) {
		return ErrSignatureInvalid
	}
	return nil
}

// NormalizeIdentity implements IdentityNormalizer. Addresses map to their
// EIP-55 checksummed form; anything else is returned unchanged.
func (EthereumVerifier) NormalizeIdentity(identity string) string {
	if !common.IsHexAddress(identity) {
		return identity
	}
	return common.HexToAddress(identity).Hex()
}

func generateEthereumKey() (KeyPair, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return KeyPair{}, errors.Wrap(err, "generate secp256k1 key")
	}
	return KeyPair{
		Scheme:     SchemeEthereum,
		Identity:   crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(key)),
	}, nil
}

// signEthereum returns a 65-byte signature in wallet form.
func signEthereum(privateKey string, message []byte) ([]byte, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse secp256k1 private key")
	}
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	if err != nil {
		return nil, errors.Wrap(err, "sign message")
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}
