package nss

import "encoding/asn1"

// RecordKind selects which of the two fixed DER shapes a record uses. The
// store's callers always know which record they hold; the codec never sniffs
// content.
type RecordKind int

const (
	// KeyMetadata is the key4.db record shape (password check and private
	// key rows), which nests the entry salt inside a PBE parameter sequence.
	KeyMetadata RecordKind = iota
	// CredentialField is the logins.json field shape, carrying the key id
	// marker and an explicit cipher IV.
	CredentialField
)

var (
	// oidPBEWithSHA1AndTripleDESCBC identifies the Mozilla PBE scheme in
	// key metadata records.
	oidPBEWithSHA1AndTripleDESCBC = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 12, 5, 1, 3}
	// oidDESEDE3CBC identifies triple DES in CBC mode in credential fields.
	oidDESEDE3CBC = asn1.ObjectIdentifier{1, 2, 840, 113549, 3, 7}
)

// keyID marks both the nssPrivate row holding the real master key and the
// leading octet string of every credential field.
var keyID = []byte{0xf8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}

// KeyID returns a copy of the 16-byte marker that identifies the master key
// row and every credential field.
func KeyID() []byte {
	id := make([]byte, len(keyID))
	copy(id, keyID)
	return id
}

// Envelope is the decoded form of both record shapes. EntrySalt and
// Iterations are populated for KeyMetadata records, KeyID and IV for
// CredentialField records; Ciphertext is common to both.
type Envelope struct {
	Algorithm  asn1.ObjectIdentifier
	EntrySalt  []byte
	Iterations int
	KeyID      []byte
	IV         []byte
	Ciphertext []byte
}

// Wire shapes. These mirror the DER layout byte for byte and exist only for
// encoding/asn1 marshalling.

type pbeParams struct {
	EntrySalt  []byte
	Iterations int
}

type pbeAlgorithm struct {
	OID    asn1.ObjectIdentifier
	Params pbeParams
}

type keyMetadataRecord struct {
	Algorithm  pbeAlgorithm
	Ciphertext []byte
}

type cipherParams struct {
	OID asn1.ObjectIdentifier
	IV  []byte
}

type credentialFieldRecord struct {
	KeyID      []byte
	Cipher     cipherParams
	Ciphertext []byte
}

// DecodeEnvelope parses raw as the given record kind. Input that does not
// match the shape exactly, including trailing bytes, fails with
// ErrMalformedEnvelope.
func DecodeEnvelope(raw []byte, kind RecordKind) (*Envelope, error) {
	switch kind {
	case KeyMetadata:
		var rec keyMetadataRecord
		rest, err := asn1.Unmarshal(raw, &rec)
		if err != nil || len(rest) != 0 {
			return nil, ErrMalformedEnvelope
		}
		return &Envelope{
			Algorithm:  rec.Algorithm.OID,
			EntrySalt:  rec.Algorithm.Params.EntrySalt,
			Iterations: rec.Algorithm.Params.Iterations,
			Ciphertext: rec.Ciphertext,
		}, nil
	case CredentialField:
		var rec credentialFieldRecord
		rest, err := asn1.Unmarshal(raw, &rec)
		if err != nil || len(rest) != 0 {
			return nil, ErrMalformedEnvelope
		}
		return &Envelope{
			Algorithm:  rec.Cipher.OID,
			KeyID:      rec.KeyID,
			IV:         rec.Cipher.IV,
			Ciphertext: rec.Ciphertext,
		}, nil
	}
	return nil, ErrMalformedEnvelope
}

// EncodeEnvelope emits env as the given record kind. The algorithm
// identifier is always the fixed constant for that kind and, for credential
// fields, the key id marker is always the fixed one; whatever env carries in
// those slots is ignored.
func EncodeEnvelope(env *Envelope, kind RecordKind) ([]byte, error) {
	switch kind {
	case KeyMetadata:
		return asn1.Marshal(keyMetadataRecord{
			Algorithm: pbeAlgorithm{
				OID:    oidPBEWithSHA1AndTripleDESCBC,
				Params: pbeParams{EntrySalt: env.EntrySalt, Iterations: env.Iterations},
			},
			Ciphertext: env.Ciphertext,
		})
	case CredentialField:
		return asn1.Marshal(credentialFieldRecord{
			KeyID:      keyID,
			Cipher:     cipherParams{OID: oidDESEDE3CBC, IV: env.IV},
			Ciphertext: env.Ciphertext,
		})
	}
	return nil, ErrMalformedEnvelope
}
