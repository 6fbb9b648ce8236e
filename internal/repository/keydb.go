// Package repository provides persistence for the two profile stores: read
// access to the key database and load/save of the logins document.
package repository

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/firepass/firepass/internal/nss"
)

// passwordCheck is the known plaintext every key database keeps encrypted
// under the master password.
var passwordCheck = []byte("password-check\x02\x02")

// KeyDatabase reads the password-check and private key rows of key4.db.
type KeyDatabase struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewKeyDatabase creates a KeyDatabase over the given connection. conn must
// be a valid *sql.DB opened on a key4.db file.
func NewKeyDatabase(conn *sql.DB) *KeyDatabase {
	return &KeyDatabase{DB: conn}
}

// globalSalt reads the profile-wide salt from the password-check row.
func (r *KeyDatabase) globalSalt(ctx context.Context) ([]byte, []byte, error) {
	var salt, check []byte
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT item1, item2 FROM metadata WHERE id = 'password'`,
	).Scan(&salt, &check)
	if err != nil {
		return nil, nil, fmt.Errorf("read password check row: %w", err)
	}
	return salt, check, nil
}

// CheckPassword verifies a master password candidate against the stored
// password-check record. A decrypt that does not yield the known plaintext
// reports nss.ErrWrongPassword.
func (r *KeyDatabase) CheckPassword(ctx context.Context, suite nss.CipherSuite, password string) error {
	salt, check, err := r.globalSalt(ctx)
	if err != nil {
		return err
	}
	env, err := nss.DecodeEnvelope(check, nss.KeyMetadata)
	if err != nil {
		return err
	}
	pt, err := nss.DecryptPBE(suite, salt, password, env.EntrySalt, env.Ciphertext)
	if err != nil {
		return err
	}
	if !bytes.Equal(pt, passwordCheck) {
		return nss.ErrWrongPassword
	}
	return nil
}

// MasterKey scans the private key table for the row carrying the profile
// master key, then derives and decrypts it with the given password. The
// table may contain rows with other markers; only the one matching the key
// id is usable, and its absence means the profile is damaged.
func (r *KeyDatabase) MasterKey(ctx context.Context, suite nss.CipherSuite, password string) ([]byte, error) {
	salt, _, err := r.globalSalt(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT a11, a102 FROM nssPrivate`)
	if err != nil {
		return nil, fmt.Errorf("read private key rows: %w", err)
	}
	defer rows.Close()

	var payload []byte
	found := false
	for rows.Next() {
		var a11, a102 []byte
		if err := rows.Scan(&a11, &a102); err != nil {
			return nil, fmt.Errorf("scan private key row: %w", err)
		}
		if bytes.Equal(a102, nss.KeyID()) {
			payload = a11
			found = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate private key rows: %w", err)
	}
	if !found {
		return nil, nss.ErrCorruptStore
	}

	env, err := nss.DecodeEnvelope(payload, nss.KeyMetadata)
	if err != nil {
		return nil, err
	}
	key, err := nss.DecryptPBE(suite, salt, password, env.EntrySalt, env.Ciphertext)
	if err != nil {
		return nil, err
	}
	// The decrypted material may carry trailing padding; only the first 24
	// bytes are key.
	if len(key) < 24 {
		return nil, nss.ErrCorruptStore
	}
	return key[:24], nil
}
