package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func makeProfile(t *testing.T, root, name string, withKeyDB bool) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if withKeyDB {
		if err := os.WriteFile(filepath.Join(dir, "key4.db"), []byte("stub"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFindIn(t *testing.T) {
	root := t.TempDir()
	makeProfile(t, root, "abcd1234.default-release", true)
	makeProfile(t, root, "efgh5678.dev-edition", false)

	profiles, err := FindIn(root, filepath.Join(root, "does-not-exist"))
	if err != nil {
		t.Fatalf("FindIn: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("found %d profiles; want 2", len(profiles))
	}
}

func TestFindInEmpty(t *testing.T) {
	_, err := FindIn(t.TempDir())
	if !errors.Is(err, ErrNoProfiles) {
		t.Fatalf("err = %v; want ErrNoProfiles", err)
	}
}

func TestPickPrefersKeyDatabase(t *testing.T) {
	root := t.TempDir()
	noKeys := makeProfile(t, root, "stale.no-keys", false)
	withKeys := makeProfile(t, root, "live.default", true)

	got, err := pick([]string{noKeys, withKeys})
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if got != withKeys {
		t.Errorf("pick = %q; want the profile with a key database", got)
	}
}

func TestPickMostRecent(t *testing.T) {
	root := t.TempDir()
	older := makeProfile(t, root, "older.default", true)
	newer := makeProfile(t, root, "newer.default", true)

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := pick([]string{older, newer})
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if got != newer {
		t.Errorf("pick = %q; want the most recently modified profile", got)
	}
}

func TestPickNoneUsable(t *testing.T) {
	root := t.TempDir()
	dir := makeProfile(t, root, "empty.default", false)

	if _, err := pick([]string{dir}); !errors.Is(err, ErrNoProfiles) {
		t.Fatalf("err = %v; want ErrNoProfiles", err)
	}
}
