package nss

import (
	"context"
	"errors"
)

// UnlockState tracks progress of the master password exchange.
type UnlockState int

const (
	// AwaitingPassword means no password candidate has verified yet.
	AwaitingPassword UnlockState = iota
	// Verified means the master key has been derived and is available.
	Verified
	// Failed means a non-recoverable error ended the exchange.
	Failed
)

// PasswordPrompt supplies the next master password candidate. Returning an
// error stops the retry loop.
type PasswordPrompt func() (string, error)

// KeyStore is the read view of the key database the unlocker needs.
type KeyStore interface {
	// CheckPassword verifies a password candidate against the stored
	// password-check record, returning ErrWrongPassword on mismatch.
	CheckPassword(ctx context.Context, suite CipherSuite, password string) error
	// MasterKey derives the 24-byte profile master key using the given
	// password.
	MasterKey(ctx context.Context, suite CipherSuite, password string) ([]byte, error)
}

// Unlocker drives password verification and master key retrieval against a
// key store. It keeps the interactive loop out of the crypto core: the
// caller injects the prompt and owns the retry boundary.
type Unlocker struct {
	store KeyStore
	suite CipherSuite
	state UnlockState
	key   []byte
	err   error
}

func NewUnlocker(store KeyStore, suite CipherSuite) *Unlocker {
	return &Unlocker{store: store, suite: suite, state: AwaitingPassword}
}

func (u *Unlocker) State() UnlockState { return u.state }

// Key returns the master key once the unlocker is Verified, nil otherwise.
func (u *Unlocker) Key() []byte { return u.key }

// Try verifies one password candidate. ErrWrongPassword keeps the unlocker
// in AwaitingPassword so the caller may retry; any other failure moves it to
// Failed, which is terminal: later attempts return the failure unchanged.
func (u *Unlocker) Try(ctx context.Context, password string) error {
	if u.state == Verified {
		return nil
	}
	if u.state == Failed {
		return u.err
	}
	if err := u.store.CheckPassword(ctx, u.suite, password); err != nil {
		if !errors.Is(err, ErrWrongPassword) {
			u.fail(err)
		}
		return err
	}
	key, err := u.store.MasterKey(ctx, u.suite, password)
	if err != nil {
		u.fail(err)
		return err
	}
	u.key = key
	u.state = Verified
	return nil
}

func (u *Unlocker) fail(err error) {
	u.state = Failed
	u.err = err
}

// Unlock tries the empty password first, then keeps prompting until a
// candidate verifies or the prompt gives up. Firefox profiles without a
// master password set still encrypt everything under the empty string, so
// most runs never prompt at all.
func (u *Unlocker) Unlock(ctx context.Context, prompt PasswordPrompt) ([]byte, error) {
	password := ""
	for {
		err := u.Try(ctx, password)
		if err == nil {
			return u.key, nil
		}
		if !errors.Is(err, ErrWrongPassword) {
			return nil, err
		}
		password, err = prompt()
		if err != nil {
			u.fail(err)
			return nil, err
		}
	}
}
