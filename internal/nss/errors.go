package nss

import "errors"

var (
	// ErrNoDatabase is returned when the profile has no key database file.
	ErrNoDatabase = errors.New("nss: key database not found")
	// ErrWrongPassword is returned when the password-check plaintext does
	// not match after decryption. The caller may retry with another password.
	ErrWrongPassword = errors.New("nss: wrong master password")
	// ErrCorruptStore is returned when no private key row carries the
	// expected key id marker.
	ErrCorruptStore = errors.New("nss: no private key row matches the expected key id")
	// ErrMalformedEnvelope is returned when record bytes do not match the
	// fixed DER shape for their kind.
	ErrMalformedEnvelope = errors.New("nss: malformed envelope")
	// ErrUnsupportedFormat is returned when a decoded envelope carries an
	// unexpected algorithm identifier or key id.
	ErrUnsupportedFormat = errors.New("nss: unsupported envelope format")
	// ErrPadding is returned when decrypted data ends in an invalid pad run.
	ErrPadding = errors.New("nss: invalid block padding")
)
