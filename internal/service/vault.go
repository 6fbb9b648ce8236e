// Package service implements the credential operations of an unlocked
// profile: flat-field export, import of new logins and remove-by-value.
package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/firepass/firepass/internal/models"
	"github.com/firepass/firepass/internal/nss"
)

// ErrRecordNotFound is returned by Remove when no login matches the triple.
var ErrRecordNotFound = errors.New("service: no login matches the given credential")

// ExportFields is the full set of selectable export columns.
var ExportFields = []string{
	"id",
	"hostname",
	"login",
	"password",
	"timeCreated",
	"timeLastUsed",
	"timePasswordChanged",
	"timesUsed",
}

// Vault performs credential operations with an unlocked master key. The key
// is read-only after construction, so one Vault may serve any number of
// records.
type Vault struct {
	suite nss.CipherSuite
	key   []byte
	log   *zap.Logger
}

// NewVault constructs a Vault. key must be the 24-byte profile master key.
func NewVault(suite nss.CipherSuite, key []byte, log *zap.Logger) *Vault {
	return &Vault{suite: suite, key: key, log: log}
}

// Export flattens every login into the requested columns, decrypting login
// and password on demand and passing other fields through verbatim. Records
// whose fields fail to decrypt are logged and skipped; rows already produced
// are unaffected.
func (v *Vault) Export(doc *models.Document, fields []string) ([]map[string]string, error) {
	for _, field := range fields {
		if !knownField(field) {
			return nil, fmt.Errorf("unknown export field %q", field)
		}
	}
	rows := make([]map[string]string, 0, len(doc.Logins))
	for _, login := range doc.Logins {
		row, err := v.exportOne(login, fields)
		if err != nil {
			v.log.Warn("skipping login",
				zap.Int("id", login.ID),
				zap.String("hostname", login.Hostname),
				zap.Error(err),
			)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (v *Vault) exportOne(login models.Login, fields []string) (map[string]string, error) {
	row := make(map[string]string, len(fields))
	for _, field := range fields {
		switch field {
		case "id":
			row[field] = strconv.Itoa(login.ID)
		case "hostname":
			row[field] = login.Hostname
		case "login":
			username, err := nss.DecryptField(v.suite, v.key, login.EncryptedUsername)
			if err != nil {
				return nil, fmt.Errorf("decrypt username: %w", err)
			}
			row[field] = username
		case "password":
			password, err := nss.DecryptField(v.suite, v.key, login.EncryptedPassword)
			if err != nil {
				return nil, fmt.Errorf("decrypt password: %w", err)
			}
			row[field] = password
		case "timeCreated":
			row[field] = strconv.FormatInt(login.TimeCreated, 10)
		case "timeLastUsed":
			row[field] = strconv.FormatInt(login.TimeLastUsed, 10)
		case "timePasswordChanged":
			row[field] = strconv.FormatInt(login.TimePasswordChanged, 10)
		case "timesUsed":
			row[field] = strconv.Itoa(login.TimesUsed)
		}
	}
	return row, nil
}

func knownField(field string) bool {
	for _, known := range ExportFields {
		if field == known {
			return true
		}
	}
	return false
}

// Add encrypts the credential and appends it to the document as a new login
// record with id = NextID, then advances NextID.
func (v *Vault) Add(doc *models.Document, cred models.Credential) error {
	encUser, err := nss.EncryptField(v.suite, v.key, cred.Username)
	if err != nil {
		return fmt.Errorf("encrypt username: %w", err)
	}
	encPass, err := nss.EncryptField(v.suite, v.key, cred.Password)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}

	now := time.Now().UnixMilli()
	doc.Logins = append(doc.Logins, models.Login{
		ID:                  doc.NextID,
		Hostname:            cred.Hostname,
		EncryptedUsername:   encUser,
		EncryptedPassword:   encPass,
		GUID:                "{" + uuid.NewString() + "}",
		EncType:             1,
		TimeCreated:         now,
		TimeLastUsed:        now,
		TimePasswordChanged: now,
	})
	doc.NextID++
	return nil
}

// Remove deletes the first login whose decrypted triple equals cred and
// decrements NextID, mirroring Add. Other records are never renumbered, so
// removals can leave id gaps; the browser does the same, and the document
// must stay byte-compatible with it.
func (v *Vault) Remove(doc *models.Document, cred models.Credential) error {
	for i, login := range doc.Logins {
		if login.Hostname != cred.Hostname {
			continue
		}
		username, err := nss.DecryptField(v.suite, v.key, login.EncryptedUsername)
		if err != nil {
			return fmt.Errorf("decrypt username of login %d: %w", login.ID, err)
		}
		password, err := nss.DecryptField(v.suite, v.key, login.EncryptedPassword)
		if err != nil {
			return fmt.Errorf("decrypt password of login %d: %w", login.ID, err)
		}
		if username == cred.Username && password == cred.Password {
			doc.Logins = append(doc.Logins[:i], doc.Logins[i+1:]...)
			doc.NextID--
			return nil
		}
	}
	return ErrRecordNotFound
}
