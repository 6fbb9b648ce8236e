package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/firepass/firepass/internal/models"
	"github.com/firepass/firepass/internal/nss"
)

func testVault(t *testing.T) *Vault {
	t.Helper()
	key := make([]byte, 24)
	for i := range key {
		key[i] = byte(i * 3)
	}
	return NewVault(nss.StandardSuite(), key, zap.NewNop())
}

func TestAddThenExport(t *testing.T) {
	vault := testVault(t)
	doc := &models.Document{NextID: 5}
	cred := models.Credential{
		Hostname: "https://example.com",
		Username: "alice",
		Password: "s3cret",
	}

	require.NoError(t, vault.Add(doc, cred))

	assert.Equal(t, 6, doc.NextID)
	require.Len(t, doc.Logins, 1)
	login := doc.Logins[0]
	assert.Equal(t, 5, login.ID)
	assert.Equal(t, 1, login.EncType)
	assert.Zero(t, login.TimesUsed)
	assert.True(t, strings.HasPrefix(login.GUID, "{") && strings.HasSuffix(login.GUID, "}"),
		"guid %q is not brace-wrapped", login.GUID)
	assert.NotZero(t, login.TimeCreated)
	assert.Equal(t, login.TimeCreated, login.TimePasswordChanged)
	// Never stored in the clear.
	assert.NotContains(t, login.EncryptedUsername, "alice")
	assert.NotContains(t, login.EncryptedPassword, "s3cret")

	rows, err := vault.Export(doc, []string{"hostname", "login", "password"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]string{
		"hostname": "https://example.com",
		"login":    "alice",
		"password": "s3cret",
	}, rows[0])
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	vault := testVault(t)
	doc := &models.Document{NextID: 9}
	cred := models.Credential{Hostname: "https://example.com", Username: "bob", Password: "pw"}

	require.NoError(t, vault.Add(doc, cred))
	require.NoError(t, vault.Remove(doc, cred))

	assert.Equal(t, 9, doc.NextID, "remove must undo the add's counter change")
	assert.Empty(t, doc.Logins)

	err := vault.Remove(doc, cred)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRemoveMatchesFullTriple(t *testing.T) {
	vault := testVault(t)
	doc := &models.Document{NextID: 1}
	require.NoError(t, vault.Add(doc, models.Credential{
		Hostname: "https://example.com", Username: "alice", Password: "one",
	}))

	// Same hostname and user, different password: no match.
	err := vault.Remove(doc, models.Credential{
		Hostname: "https://example.com", Username: "alice", Password: "two",
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.Len(t, doc.Logins, 1)
}

func TestRemoveDoesNotRenumber(t *testing.T) {
	vault := testVault(t)
	doc := &models.Document{NextID: 1}
	for _, user := range []string{"a", "b", "c"} {
		require.NoError(t, vault.Add(doc, models.Credential{
			Hostname: "https://example.com", Username: user, Password: "pw",
		}))
	}

	require.NoError(t, vault.Remove(doc, models.Credential{
		Hostname: "https://example.com", Username: "b", Password: "pw",
	}))

	// Remaining ids keep their gaps; only the counter moves.
	require.Len(t, doc.Logins, 2)
	assert.Equal(t, 1, doc.Logins[0].ID)
	assert.Equal(t, 3, doc.Logins[1].ID)
	assert.Equal(t, 3, doc.NextID)
}

func TestExportPassthroughFields(t *testing.T) {
	vault := testVault(t)
	doc := &models.Document{NextID: 1}
	require.NoError(t, vault.Add(doc, models.Credential{
		Hostname: "https://example.com", Username: "alice", Password: "pw",
	}))
	doc.Logins[0].TimesUsed = 42
	doc.Logins[0].TimeLastUsed = 1700000001000

	rows, err := vault.Export(doc, []string{"id", "timesUsed", "timeLastUsed"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["id"])
	assert.Equal(t, "42", rows[0]["timesUsed"])
	assert.Equal(t, "1700000001000", rows[0]["timeLastUsed"])
}

func TestExportSkipsUndecryptableRecords(t *testing.T) {
	vault := testVault(t)
	doc := &models.Document{NextID: 1}
	require.NoError(t, vault.Add(doc, models.Credential{
		Hostname: "https://good.example", Username: "alice", Password: "pw",
	}))
	doc.Logins = append(doc.Logins, models.Login{
		ID:                99,
		Hostname:          "https://broken.example",
		EncryptedUsername: "*** not base64 ***",
		EncryptedPassword: "*** not base64 ***",
	})

	rows, err := vault.Export(doc, []string{"hostname", "login"})
	require.NoError(t, err)
	require.Len(t, rows, 1, "the broken record is skipped, not fatal")
	assert.Equal(t, "https://good.example", rows[0]["hostname"])
}

func TestExportUnknownField(t *testing.T) {
	vault := testVault(t)
	_, err := vault.Export(&models.Document{}, []string{"hostname", "favouriteColour"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "favouriteColour")
}

func TestRemoveUndecryptableCandidateFails(t *testing.T) {
	vault := testVault(t)
	doc := &models.Document{
		NextID: 2,
		Logins: []models.Login{{
			ID:                1,
			Hostname:          "https://example.com",
			EncryptedUsername: "garbage",
			EncryptedPassword: "garbage",
		}},
	}

	err := vault.Remove(doc, models.Credential{
		Hostname: "https://example.com", Username: "alice", Password: "pw",
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRecordNotFound), "decrypt failure must not masquerade as not-found")
	assert.Len(t, doc.Logins, 1)
	assert.Equal(t, 2, doc.NextID)
}
