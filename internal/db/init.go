package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/firepass/firepass/internal/nss"
)

// keyDatabaseName is the key database file inside a profile directory.
const keyDatabaseName = "key4.db"

// OpenKeyDatabase opens the profile's key database read-only. A missing file
// reports nss.ErrNoDatabase instead of letting the sqlite driver create an
// empty database at the path.
func OpenKeyDatabase(profileDir string) (*sql.DB, error) {
	path := filepath.Join(profileDir, keyDatabaseName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nss.ErrNoDatabase
		}
		return nil, fmt.Errorf("stat key database: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open key database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping key database: %w", err)
	}
	return conn, nil
}

// HasKeyDatabase reports whether the directory contains a key database file.
func HasKeyDatabase(profileDir string) bool {
	_, err := os.Stat(filepath.Join(profileDir, keyDatabaseName))
	return err == nil
}
