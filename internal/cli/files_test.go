package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tucha-cloud/tucha/internal/localfs"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPlanUploads_Files(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	touch(t, a)
	touch(t, b)

	batches, err := planUploads([]string{a, b}, "/docs", false, localfs.WalkOptions{})
	if err != nil {
		t.Fatalf("planUploads failed: %v", err)
	}
	if len(batches) != 1 || batches[0].Dir != "/docs" || len(batches[0].Paths) != 2 {
		t.Fatalf("Expected one batch of two files in /docs, got %+v", batches)
	}
}

func TestPlanUploads_DirectoryNeedsRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "photos", "p.jpg"))

	_, err := planUploads([]string{filepath.Join(dir, "photos")}, "/", false, localfs.WalkOptions{})
	if err == nil || !strings.Contains(err.Error(), "--recursive") {
		t.Fatalf("Expected a --recursive hint, got %v", err)
	}
}

func TestPlanUploads_RecursiveKeepsLayout(t *testing.T) {
	dir := t.TempDir()
	photos := filepath.Join(dir, "photos")
	touch(t, filepath.Join(photos, "p1.jpg"))
	touch(t, filepath.Join(photos, "2024", "p2.jpg"))
	touch(t, filepath.Join(photos, ".thumbs", "t.jpg"))
	single := filepath.Join(dir, "notes.txt")
	touch(t, single)

	batches, err := planUploads([]string{photos, single}, "/backup", true, localfs.WalkOptions{})
	if err != nil {
		t.Fatalf("planUploads failed: %v", err)
	}

	got := map[string]int{}
	for _, b := range batches {
		got[b.Dir] = len(b.Paths)
	}
	want := map[string]int{"/backup/photos": 1, "/backup/photos/2024": 1, "/backup": 1}
	if len(got) != len(want) {
		t.Fatalf("Expected batches %v, got %v", want, got)
	}
	for dir, n := range want {
		if got[dir] != n {
			t.Errorf("%s: expected %d file(s), got %d", dir, n, got[dir])
		}
	}
}

func TestPlanUploads_Missing(t *testing.T) {
	if _, err := planUploads([]string{filepath.Join(t.TempDir(), "nope")}, "/", false, localfs.WalkOptions{}); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
