// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cry implements signature verification and hashing over the three
// algorithm families a roster attestation may carry.
package cry

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"math/big"

	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/sorcha"
)

// rsaMinKeySize is the modulus size in bytes of RSA-4096.
const rsaMinKeySize = 512

// Verify checks sig over msg with the given algorithm and public key.
// Per-algorithm rules:
//
//   - ED25519: 32 byte key, 64 byte signature, raw message.
//   - NIST_P256: uncompressed (64/65 byte) key, DER-encoded ECDSA signature
//     over SHA-256(msg).
//   - RSA_4096: DER key with >= 512 byte modulus, PKCS#1 v1.5 signature over
//     SHA-256(msg).
func Verify(algorithm sorcha.Algorithm, publicKey, msg, sig []byte) error {
	switch algorithm {
	case sorcha.AlgorithmEd25519:
		return verifyEd25519(publicKey, msg, sig)
	case sorcha.AlgorithmP256:
		digest := Hash(msg)
		return verifyP256(publicKey, digest.Bytes(), sig)
	case sorcha.AlgorithmRSA4096:
		digest := Hash(msg)
		return verifyRSA(publicKey, digest.Bytes(), sig)
	default:
		return errors.Wrapf(errUnknownAlgorithm, "%q", algorithm)
	}
}

// VerifyPreHashed checks sig where the caller already produced the canonical
// 32 byte digest. For ED25519 the digest bytes are the signed message; for
// the hash-then-sign families the digest substitutes SHA-256(msg).
func VerifyPreHashed(algorithm sorcha.Algorithm, publicKey []byte, digest sorcha.Bytes32, sig []byte) error {
	switch algorithm {
	case sorcha.AlgorithmEd25519:
		return verifyEd25519(publicKey, digest.Bytes(), sig)
	case sorcha.AlgorithmP256:
		return verifyP256(publicKey, digest.Bytes(), sig)
	case sorcha.AlgorithmRSA4096:
		return verifyRSA(publicKey, digest.Bytes(), sig)
	default:
		return errors.Wrapf(errUnknownAlgorithm, "%q", algorithm)
	}
}

func verifyEd25519(publicKey, msg, sig []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return errors.Wrapf(errInvalidKey, "ed25519 key size %d", len(publicKey))
	}
	if len(sig) != ed25519.SignatureSize {
		return errors.Wrapf(errInvalidSignature, "ed25519 sig size %d", len(sig))
	}
	if !ed25519.Verify(ed25519.PublicKey(publicKey), msg, sig) {
		return errVerificationFailed
	}
	return nil
}

func verifyP256(publicKey, digest, sig []byte) error {
	pub, err := parseP256PublicKey(publicKey)
	if err != nil {
		return err
	}
	if len(sig) == 0 {
		return errors.Wrap(errInvalidSignature, "empty")
	}
	if !ecdsa.VerifyASN1(pub, digest, sig) {
		return errVerificationFailed
	}
	return nil
}

func verifyRSA(publicKey, digest, sig []byte) error {
	pub, err := parseRSAPublicKey(publicKey)
	if err != nil {
		return err
	}
	if len(sig) < rsaMinKeySize {
		return errors.Wrapf(errInvalidSignature, "rsa sig size %d", len(sig))
	}
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest, sig); err != nil {
		return errVerificationFailed
	}
	return nil
}

// parseP256PublicKey accepts the uncompressed point form, with or without
// the 0x04 prefix byte.
func parseP256PublicKey(b []byte) (*ecdsa.PublicKey, error) {
	switch len(b) {
	case 65:
		if b[0] != 0x04 {
			return nil, errors.Wrap(errInvalidKey, "p256 point prefix")
		}
		b = b[1:]
	case 64:
	default:
		return nil, errors.Wrapf(errInvalidKey, "p256 key size %d", len(b))
	}

	curve := elliptic.P256()
	x := new(big.Int).SetBytes(b[:32])
	y := new(big.Int).SetBytes(b[32:])
	if !curve.IsOnCurve(x, y) {
		return nil, errors.Wrap(errInvalidKey, "p256 point not on curve")
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

// parseRSAPublicKey accepts PKIX (SubjectPublicKeyInfo) or PKCS#1 DER.
func parseRSAPublicKey(b []byte) (*rsa.PublicKey, error) {
	if pub, err := x509.ParsePKIXPublicKey(b); err == nil {
		if rsaPub, ok := pub.(*rsa.PublicKey); ok {
			return checkRSAKeySize(rsaPub)
		}
		return nil, errors.Wrap(errInvalidKey, "not an rsa key")
	}
	if rsaPub, err := x509.ParsePKCS1PublicKey(b); err == nil {
		return checkRSAKeySize(rsaPub)
	}
	return nil, errors.Wrap(errInvalidKey, "rsa der parse")
}

func checkRSAKeySize(pub *rsa.PublicKey) (*rsa.PublicKey, error) {
	if pub.Size() < rsaMinKeySize {
		return nil, errors.Wrapf(errInvalidKey, "rsa modulus %d bits", pub.N.BitLen())
	}
	return pub, nil
}

// ConsistentKey reports whether the public key length is plausible for the
// algorithm, without a full parse. Used by roster invariant checks.
func ConsistentKey(algorithm sorcha.Algorithm, publicKey []byte) bool {
	switch algorithm {
	case sorcha.AlgorithmEd25519:
		return len(publicKey) == ed25519.PublicKeySize
	case sorcha.AlgorithmP256:
		return len(publicKey) == 64 || len(publicKey) == 65
	case sorcha.AlgorithmRSA4096:
		return len(publicKey) >= rsaMinKeySize
	default:
		return false
	}
}
