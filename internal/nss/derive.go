package nss

import "crypto/cipher"

// paddedSaltLen is the length the entry salt is zero-padded to before it is
// fed into the MAC steps. Salts already at or past this length are used
// unpadded.
const paddedSaltLen = 20

// DeriveKey computes the Mozilla PBE key schedule for one encrypted record.
// It is a pure function of its inputs and yields 24 bytes of triple DES key
// material plus the 8-byte CBC IV.
func DeriveKey(suite CipherSuite, globalSalt []byte, password string, entrySalt []byte) (key, iv []byte) {
	hp := suite.Digest(globalSalt, []byte(password))
	pes := entrySalt
	if len(entrySalt) < paddedSaltLen {
		pes = make([]byte, paddedSaltLen)
		copy(pes, entrySalt)
	}
	chp := suite.Digest(hp, entrySalt)
	k1 := suite.MAC(chp, pes, entrySalt)
	tk := suite.MAC(chp, pes)
	k2 := suite.MAC(chp, tk, entrySalt)

	combined := make([]byte, 0, len(k1)+len(k2))
	combined = append(combined, k1...)
	combined = append(combined, k2...)
	return combined[:24], combined[len(combined)-8:]
}

// DecryptPBE derives the record key from (globalSalt, password, entrySalt)
// and decrypts ct with it in CBC mode. The result keeps any trailing
// padding; callers that need it stripped do so themselves.
func DecryptPBE(suite CipherSuite, globalSalt []byte, password string, entrySalt, ct []byte) ([]byte, error) {
	key, iv := DeriveKey(suite, globalSalt, password, entrySalt)
	return cbcDecrypt(suite, key, iv, ct)
}

func cbcDecrypt(suite CipherSuite, key, iv, ct []byte) ([]byte, error) {
	block, err := suite.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != block.BlockSize() {
		return nil, ErrMalformedEnvelope
	}
	if len(ct) == 0 || len(ct)%block.BlockSize() != 0 {
		return nil, ErrMalformedEnvelope
	}
	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(pt, ct)
	return pt, nil
}

func cbcEncrypt(suite CipherSuite, key, iv, pt []byte) ([]byte, error) {
	block, err := suite.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != block.BlockSize() {
		return nil, ErrMalformedEnvelope
	}
	ct := make([]byte, len(pt))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, pt)
	return ct, nil
}
