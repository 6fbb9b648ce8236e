// Package models defines the logins document structures shared by the
// repository and service layers.
package models

import "encoding/json"

// Login is one stored credential record as it appears in logins.json. Field
// names and their JSON spellings follow the browser's own schema, so a
// rewritten document stays loadable by the browser.
type Login struct {
	// ID is the record identifier assigned from the document's NextID.
	ID int `json:"id"`
	// Hostname is the normalized scheme://host origin.
	Hostname string `json:"hostname"`
	// HTTPRealm is kept as raw JSON; the browser stores null for form logins.
	HTTPRealm json.RawMessage `json:"httpRealm"`
	// FormSubmitURL is the form action origin, empty for records we create.
	FormSubmitURL string `json:"formSubmitURL"`
	// UsernameField and PasswordField name the form inputs, when known.
	UsernameField string `json:"usernameField"`
	PasswordField string `json:"passwordField"`
	// EncryptedUsername and EncryptedPassword are base64 credential field
	// envelopes decryptable with the profile master key.
	EncryptedUsername string `json:"encryptedUsername"`
	EncryptedPassword string `json:"encryptedPassword"`
	// GUID is the globally unique id string, braces included.
	GUID string `json:"guid"`
	// EncType is the browser's encryption type tag; 1 means master-key 3DES.
	EncType int `json:"encType"`
	// Timestamps are unix milliseconds.
	TimeCreated         int64 `json:"timeCreated"`
	TimeLastUsed        int64 `json:"timeLastUsed"`
	TimePasswordChanged int64 `json:"timePasswordChanged"`
	// TimesUsed counts autofills; zero for records we create.
	TimesUsed int `json:"timesUsed"`
}

// Document is the decoded logins.json. NextID drives id assignment and is
// deliberately not a live record count: adds increment it and matching
// removes decrement it, mirroring the browser's own id scheme, gaps and all.
type Document struct {
	NextID int     `json:"nextId"`
	Logins []Login `json:"logins"`
	// Fields this tool never touches are carried through verbatim so a
	// rewrite does not drop them.
	PotentiallyVulnerablePasswords   json.RawMessage `json:"potentiallyVulnerablePasswords,omitempty"`
	DismissedBreachAlertsByLoginGUID json.RawMessage `json:"dismissedBreachAlertsByLoginGUID,omitempty"`
	Version                          int             `json:"version,omitempty"`
}

// Credential is a plaintext (hostname, username, password) triple as used by
// import, remove and the tabular format.
type Credential struct {
	Hostname string
	Username string
	Password string
}
