package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MetadataVersion is the format tag written into every new metadata record.
const MetadataVersion = "1"

// ErrNotMetadata indicates that a message text is not a metadata record.
var ErrNotMetadata = errors.New("text is not a file metadata record")

// FileMetadata is the record embedded as a stored message's text payload.
// Version and Path are required; the remaining fields are optional.
type FileMetadata struct {
	Version   string     `json:"version"`
	Path      string     `json:"path"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Origin    string     `json:"origin,omitempty"` // username of the uploader
}

// NewFileMetadata creates a current-version record for the given virtual path.
func NewFileMetadata(path, origin string) FileMetadata {
	now := time.Now().UTC()
	return FileMetadata{
		Version:   MetadataVersion,
		Path:      path,
		CreatedAt: &now,
		Origin:    origin,
	}
}

// Encode serializes the record to the message text form.
func (m FileMetadata) Encode() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode file metadata: %w", err)
	}
	return string(data), nil
}

// ParseFileMetadata parses a message text. Texts that are not JSON objects, or
// that lack the version or path keys, are rejected with ErrNotMetadata.
func ParseFileMetadata(text string) (FileMetadata, error) {
	var raw struct {
		Version   *string    `json:"version"`
		Path      *string    `json:"path"`
		CreatedAt *time.Time `json:"created_at"`
		Origin    string     `json:"origin"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return FileMetadata{}, fmt.Errorf("%w: %v", ErrNotMetadata, err)
	}
	if raw.Version == nil || *raw.Version == "" || raw.Path == nil {
		return FileMetadata{}, ErrNotMetadata
	}
	return FileMetadata{
		Version:   *raw.Version,
		Path:      *raw.Path,
		CreatedAt: raw.CreatedAt,
		Origin:    raw.Origin,
	}, nil
}

// File is one stored object as seen in the storage container listing.
// MessageID is the unit of addressing for download and delete.
type File struct {
	Metadata  FileMetadata
	MessageID int
	Name      string // display name of the attachment
}

// NewFile creates a File entry.
func NewFile(metadata FileMetadata, messageID int, name string) File {
	return File{
		Metadata:  metadata,
		MessageID: messageID,
		Name:      name,
	}
}
