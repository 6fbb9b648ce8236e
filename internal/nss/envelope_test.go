package nss

import (
	"encoding/asn1"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialFieldEnvelopeRoundTrip(t *testing.T) {
	in := &Envelope{
		IV:         []byte{1, 2, 3, 4, 5, 6, 7, 8},
		Ciphertext: []byte("16 ct bytes here"),
	}
	raw, err := EncodeEnvelope(in, CredentialField)
	require.NoError(t, err)

	out, err := DecodeEnvelope(raw, CredentialField)
	require.NoError(t, err)

	assert.Equal(t, KeyID(), out.KeyID)
	assert.Equal(t, "1.2.840.113549.3.7", out.Algorithm.String())
	assert.Equal(t, in.IV, out.IV)
	assert.Equal(t, in.Ciphertext, out.Ciphertext)
}

func TestKeyMetadataEnvelopeRoundTrip(t *testing.T) {
	in := &Envelope{
		EntrySalt:  []byte("20-byte-entry-salt!!"),
		Iterations: 1,
		Ciphertext: []byte("cipher-text-data"),
	}
	raw, err := EncodeEnvelope(in, KeyMetadata)
	require.NoError(t, err)

	out, err := DecodeEnvelope(raw, KeyMetadata)
	require.NoError(t, err)

	assert.Equal(t, "1.2.840.113549.1.12.5.1.3", out.Algorithm.String())
	assert.Equal(t, in.EntrySalt, out.EntrySalt)
	assert.Equal(t, 1, out.Iterations)
	assert.Equal(t, in.Ciphertext, out.Ciphertext)
}

func TestDecodeEnvelopeWrongKind(t *testing.T) {
	raw, err := EncodeEnvelope(&Envelope{
		IV:         make([]byte, 8),
		Ciphertext: make([]byte, 8),
	}, CredentialField)
	require.NoError(t, err)

	// The codec is told which shape to expect; the other shape must not
	// parse by accident.
	_, err = DecodeEnvelope(raw, KeyMetadata)
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestDecodeEnvelopeRejectsTrailingBytes(t *testing.T) {
	raw, err := EncodeEnvelope(&Envelope{
		IV:         make([]byte, 8),
		Ciphertext: make([]byte, 8),
	}, CredentialField)
	require.NoError(t, err)

	_, err = DecodeEnvelope(append(raw, 0x00), CredentialField)
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestDecodeEnvelopeTruncated(t *testing.T) {
	raw, err := EncodeEnvelope(&Envelope{
		IV:         make([]byte, 8),
		Ciphertext: make([]byte, 16),
	}, CredentialField)
	require.NoError(t, err)

	for _, n := range []int{0, 1, len(raw) / 2, len(raw) - 1} {
		_, err := DecodeEnvelope(raw[:n], CredentialField)
		assert.ErrorIs(t, err, ErrMalformedEnvelope, "prefix of %d bytes", n)
	}
}

func TestDecodeEnvelopeNotASequence(t *testing.T) {
	raw, err := asn1.Marshal([]byte("just an octet string"))
	require.NoError(t, err)

	_, err = DecodeEnvelope(raw, CredentialField)
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
	_, err = DecodeEnvelope(raw, KeyMetadata)
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}
