package core

import (
	"strings"
	"time"
)

// MetadataFilename is the sidecar file texwiz keeps next to the manifest
const MetadataFilename = "metadata.json"

// Pack stores the pack summary, usually in metadata.json
type Pack struct {
	// ID is generated once at creation and also names the pack directory
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Version     SemVer  `json:"version"`
	IconPath    *string `json:"iconPath"`
	FolderPath  *string `json:"folderPath"`
	// Timestamps are milliseconds since the Unix epoch
	CreatedAt  int64 `json:"createdAt"`
	ModifiedAt int64 `json:"modifiedAt"`
}

// LoadPackMetadata loads a metadata sidecar to a Pack struct
func LoadPackMetadata(path string) (Pack, error) {
	var pack Pack
	if err := readJSONFile(path, &pack); err != nil {
		return Pack{}, err
	}
	return pack, nil
}

// Write saves the metadata sidecar atomically
func (pack Pack) Write(path string) error {
	return writeJSONFile(path, pack)
}

// Touch bumps ModifiedAt to now, or one millisecond past the previous value when the
// clock has not moved, so that every mutation is observable.
func (pack *Pack) Touch(now time.Time) {
	ms := now.UnixMilli()
	if ms <= pack.ModifiedAt {
		ms = pack.ModifiedAt + 1
	}
	pack.ModifiedAt = ms
}

// Created returns CreatedAt as a time
func (pack Pack) Created() time.Time {
	return time.UnixMilli(pack.CreatedAt)
}

// Modified returns ModifiedAt as a time
func (pack Pack) Modified() time.Time {
	return time.UnixMilli(pack.ModifiedAt)
}

// GetPackName returns a name suitable for file names, falling back to the ID
func (pack Pack) GetPackName() string {
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return pack.ID
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return newValidationError("name", "must not be empty")
	}
	return nil
}
