package models

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFileMetadata(t *testing.T) {
	testCases := []struct {
		name      string
		text      string
		expectOK  bool
		expectVer string
		expectPth string
	}{
		{name: "minimal", text: `{"version":"1","path":"/docs/a.txt"}`, expectOK: true, expectVer: "1", expectPth: "/docs/a.txt"},
		{name: "empty_path_is_root", text: `{"version":"1","path":""}`, expectOK: true, expectVer: "1", expectPth: ""},
		{name: "with_optional_fields", text: `{"version":"1","path":"x","created_at":"2024-01-02T03:04:05Z","origin":"alice"}`, expectOK: true, expectVer: "1", expectPth: "x"},
		{name: "plain_text", text: "hello there", expectOK: false},
		{name: "empty_text", text: "", expectOK: false},
		{name: "missing_version", text: `{"path":"/a"}`, expectOK: false},
		{name: "missing_path", text: `{"version":"1"}`, expectOK: false},
		{name: "json_array", text: `["version","path"]`, expectOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			meta, err := ParseFileMetadata(tc.text)
			if !tc.expectOK {
				if err == nil {
					t.Fatalf("expected error for %q, got %+v", tc.text, meta)
				}
				if !errors.Is(err, ErrNotMetadata) {
					t.Errorf("expected ErrNotMetadata, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if meta.Version != tc.expectVer {
				t.Errorf("version = %q, want %q", meta.Version, tc.expectVer)
			}
			if meta.Path != tc.expectPth {
				t.Errorf("path = %q, want %q", meta.Path, tc.expectPth)
			}
		})
	}
}

func TestFileMetadata_EncodeParses(t *testing.T) {
	meta := NewFileMetadata("/photos/cat.png", "alice")
	text, err := meta.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.Contains(text, `"version":"1"`) {
		t.Errorf("expected version tag in %s", text)
	}

	parsed, err := ParseFileMetadata(text)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.Path != "/photos/cat.png" || parsed.Origin != "alice" {
		t.Errorf("unexpected parsed record: %+v", parsed)
	}
	if parsed.CreatedAt == nil {
		t.Error("expected created_at to survive encoding")
	}
}
