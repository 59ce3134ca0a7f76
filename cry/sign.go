// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"

	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/sorcha"
)

// Sign signs msg with the private key of the given algorithm family.
// The counterpart of Verify; used by the in-memory wallet and tests.
func Sign(algorithm sorcha.Algorithm, priv crypto.PrivateKey, msg []byte) ([]byte, error) {
	switch algorithm {
	case sorcha.AlgorithmEd25519:
		key, ok := priv.(ed25519.PrivateKey)
		if !ok {
			return nil, errors.New("ed25519 private key required")
		}
		return ed25519.Sign(key, msg), nil
	case sorcha.AlgorithmP256, sorcha.AlgorithmRSA4096:
		digest := Hash(msg)
		return SignPreHashed(algorithm, priv, digest)
	default:
		return nil, errors.Wrapf(errUnknownAlgorithm, "%q", algorithm)
	}
}

// SignPreHashed signs the canonical 32 byte digest directly.
func SignPreHashed(algorithm sorcha.Algorithm, priv crypto.PrivateKey, digest sorcha.Bytes32) ([]byte, error) {
	switch algorithm {
	case sorcha.AlgorithmEd25519:
		key, ok := priv.(ed25519.PrivateKey)
		if !ok {
			return nil, errors.New("ed25519 private key required")
		}
		return ed25519.Sign(key, digest.Bytes()), nil
	case sorcha.AlgorithmP256:
		key, ok := priv.(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.New("ecdsa private key required")
		}
		return ecdsa.SignASN1(rand.Reader, key, digest.Bytes())
	case sorcha.AlgorithmRSA4096:
		key, ok := priv.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("rsa private key required")
		}
		return rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest.Bytes())
	default:
		return nil, errors.Wrapf(errUnknownAlgorithm, "%q", algorithm)
	}
}

// GenerateKey generates a fresh key pair, returning the private key and the
// wire form of the public key Verify accepts.
func GenerateKey(algorithm sorcha.Algorithm) (crypto.PrivateKey, []byte, error) {
	switch algorithm {
	case sorcha.AlgorithmEd25519:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		return priv, []byte(pub), nil
	case sorcha.AlgorithmP256:
		priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		pub := elliptic.Marshal(elliptic.P256(), priv.X, priv.Y)
		return priv, pub, nil
	case sorcha.AlgorithmRSA4096:
		priv, err := rsa.GenerateKey(rand.Reader, 4096)
		if err != nil {
			return nil, nil, err
		}
		return priv, x509.MarshalPKCS1PublicKey(&priv.PublicKey), nil
	default:
		return nil, nil, errors.Wrapf(errUnknownAlgorithm, "%q", algorithm)
	}
}
