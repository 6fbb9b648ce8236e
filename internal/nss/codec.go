package nss

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"io"
)

// fieldBlockSize is the cipher block size of the credential field scheme.
const fieldBlockSize = 8

// DecryptField decodes one base64 credential field from the logins document
// and decrypts it with the profile master key.
func DecryptField(suite CipherSuite, key []byte, field string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(field)
	if err != nil {
		return "", ErrMalformedEnvelope
	}
	env, err := DecodeEnvelope(raw, CredentialField)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(env.KeyID, keyID) || !env.Algorithm.Equal(oidDESEDE3CBC) {
		return "", ErrUnsupportedFormat
	}
	pt, err := cbcDecrypt(suite, key, env.IV, env.Ciphertext)
	if err != nil {
		return "", err
	}
	unpadded, err := unpad(pt)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

// EncryptField encrypts plaintext with the master key under a fresh random
// IV and wraps the result in a base64 credential field envelope.
func EncryptField(suite CipherSuite, key []byte, plaintext string) (string, error) {
	iv := make([]byte, fieldBlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}
	ct, err := cbcEncrypt(suite, key, iv, pad([]byte(plaintext)))
	if err != nil {
		return "", err
	}
	raw, err := EncodeEnvelope(&Envelope{IV: iv, Ciphertext: ct}, CredentialField)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// pad appends block padding. Input already on a block boundary still gains a
// full padding block, so the pad length is always in [1,8].
func pad(b []byte) []byte {
	n := fieldBlockSize - len(b)%fieldBlockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// unpad strips block padding. A trailing byte outside [1,8] or a pad run
// disagreeing with it is rejected.
func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > fieldBlockSize || n > len(b) {
		return nil, ErrPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrPadding
		}
	}
	return b[:len(b)-n], nil
}
