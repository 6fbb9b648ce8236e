// Package nss implements the subset of the Mozilla NSS key scheme needed to
// export and import saved logins: the PBE key derivation, the two fixed DER
// envelope shapes of key4.db and logins.json, the per-field 3DES codec and
// the interactive unlock flow.
package nss

import (
	"crypto/cipher"
	"crypto/des"
	"crypto/hmac"
	"crypto/sha1"
)

// CipherSuite bundles the byte primitives consumed by the key derivation and
// the field codec, so both can be exercised against fakes in tests.
// Digest and MAC are expected to produce 20-byte outputs, NewCipher a cipher
// for 24-byte key material.
type CipherSuite interface {
	// Digest hashes the concatenation of parts.
	Digest(parts ...[]byte) []byte
	// MAC computes a keyed hash over the concatenation of parts.
	MAC(key []byte, parts ...[]byte) []byte
	// NewCipher builds a block cipher from the given key material.
	NewCipher(key []byte) (cipher.Block, error)
}

// sha1DES3Suite is the production suite: SHA-1, HMAC-SHA-1 and triple DES,
// matching the Mozilla PBE scheme.
type sha1DES3Suite struct{}

func (sha1DES3Suite) Digest(parts ...[]byte) []byte {
	h := sha1.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func (sha1DES3Suite) MAC(key []byte, parts ...[]byte) []byte {
	m := hmac.New(sha1.New, key)
	for _, p := range parts {
		m.Write(p)
	}
	return m.Sum(nil)
}

func (sha1DES3Suite) NewCipher(key []byte) (cipher.Block, error) {
	return des.NewTripleDESCipher(key)
}

// StandardSuite returns the SHA-1/HMAC-SHA-1/3DES suite used by Firefox key
// databases.
func StandardSuite() CipherSuite { return sha1DES3Suite{} }
