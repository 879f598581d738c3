// Package storage defines the vault file-system abstraction.
package storage

import "time"

// FileInfo is lightweight metadata for one vault markdown file.
type FileInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for vault file operations. All paths are relative
// to the vault root. An entry relocation triggered by a date_created change
// is expressed by the caller as Write(new) + Delete(old); Move exists for
// plain renames.
type Provider interface {
	// List returns metadata for every .md file under dir ("" for the whole vault).
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating directories as needed.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
}
