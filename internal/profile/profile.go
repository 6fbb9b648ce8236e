// Package profile locates Firefox profile directories on disk.
package profile

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/firepass/firepass/internal/db"
)

// ErrNoProfiles is returned when no profile directory can be found under any
// of the platform's candidate roots.
var ErrNoProfiles = errors.New("profile: no Firefox profiles found")

// roots returns the platform's candidate profile root directories.
func roots() []string {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		return []string{filepath.Join(home, "Library", "Application Support", "Firefox", "Profiles")}
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return nil
		}
		return []string{filepath.Join(appData, "Mozilla", "Firefox", "Profiles")}
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		return []string{
			filepath.Join(home, ".mozilla", "firefox"),
			filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox"),
		}
	}
}

// Find lists profile directories under the platform's default roots.
func Find() ([]string, error) {
	return FindIn(roots()...)
}

// FindIn lists profile directories under the given roots. Roots that do not
// exist are skipped.
func FindIn(dirs ...string) ([]string, error) {
	var profiles []string
	for _, root := range dirs {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				profiles = append(profiles, filepath.Join(root, entry.Name()))
			}
		}
	}
	if len(profiles) == 0 {
		return nil, ErrNoProfiles
	}
	return profiles, nil
}

// Default picks the most recently modified profile that contains a key
// database, which in practice is the one the browser currently uses.
func Default() (string, error) {
	profiles, err := Find()
	if err != nil {
		return "", err
	}
	return pick(profiles)
}

func pick(profiles []string) (string, error) {
	best := ""
	var bestTime int64
	for _, dir := range profiles {
		if !db.HasKeyDatabase(dir) {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); best == "" || mod > bestTime {
			best, bestTime = dir, mod
		}
	}
	if best == "" {
		return "", ErrNoProfiles
	}
	return best, nil
}
