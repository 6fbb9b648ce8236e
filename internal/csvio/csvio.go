// Package csvio reads and writes the tabular credential format used for
// import and export.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/firepass/firepass/internal/models"
)

// columnAliases maps accepted header spellings to the canonical column.
// Export uses the document's own field names while most password managers
// emit url/username/password, so both are accepted on import.
var columnAliases = map[string]string{
	"url":      "url",
	"hostname": "url",
	"origin":   "url",
	"username": "username",
	"login":    "username",
	"user":     "username",
	"password": "password",
	"passwd":   "password",
}

// ReadCredentials parses CSV rows into credentials. The header is matched
// case-insensitively and URLs are reduced to scheme://host; rows shorter
// than the header are rejected by the csv reader itself.
func ReadCredentials(r io.Reader) ([]models.Credential, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			if _, dup := index[canonical]; !dup {
				index[canonical] = i
			}
		}
	}
	for _, want := range []string{"url", "username", "password"} {
		if _, ok := index[want]; !ok {
			return nil, fmt.Errorf("csv header is missing a %q column", want)
		}
	}

	var creds []models.Credential
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		hostname, err := NormalizeURL(record[index["url"]])
		if err != nil {
			return nil, err
		}
		creds = append(creds, models.Credential{
			Hostname: hostname,
			Username: record[index["username"]],
			Password: record[index["password"]],
		})
	}
	return creds, nil
}

// NormalizeURL strips a URL down to scheme://host, the form hostnames take
// in the logins document.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host}).String(), nil
}

// WriteRows writes one header row naming the fields followed by one row per
// record, in the field order given.
func WriteRows(w io.Writer, fields []string, rows []map[string]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(fields); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(fields))
	for _, row := range rows {
		for i, field := range fields {
			record[i] = row[field]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
