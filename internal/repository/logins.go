package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/firepass/firepass/internal/models"
)

// loginsFileName is the logins document inside a profile directory.
const loginsFileName = "logins.json"

// LoginsFile loads and saves the logins document of one profile directory.
type LoginsFile struct {
	Dir string
}

func NewLoginsFile(dir string) *LoginsFile {
	return &LoginsFile{Dir: dir}
}

// Load reads and decodes the logins document.
func (f *LoginsFile) Load() (*models.Document, error) {
	raw, err := os.ReadFile(filepath.Join(f.Dir, loginsFileName))
	if err != nil {
		return nil, fmt.Errorf("read logins document: %w", err)
	}
	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode logins document: %w", err)
	}
	return &doc, nil
}

// Save rewrites the logins document. The write goes through a temp file and
// rename so a crash never leaves a half-written document behind.
func (f *LoginsFile) Save(doc *models.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode logins document: %w", err)
	}
	return atomicWriteFile(filepath.Join(f.Dir, loginsFileName), raw, 0600)
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "logins-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	return os.Chmod(path, perm)
}
