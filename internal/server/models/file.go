// Package models holds the server-side domain records persisted by the
// repositories.
package models

import "time"

// FileRecord is one encrypted member-record upload. Ciphertext and nonce are
// immutable once written; Checksum is the SHA-256 hex of the original bytes
// and is unique across all stored files. When an object store is configured
// the ciphertext lives there under StorageKey and Ciphertext is empty.
type FileRecord struct {
	ID          string
	FileName    string
	ContentType string
	SizeBytes   int64
	Uploader    string
	UploadedAt  time.Time
	Algorithm   string
	Checksum    string
	Nonce       []byte
	Ciphertext  []byte
	StorageKey  string
}
