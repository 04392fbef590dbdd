package model

import "time"

// File represents a stored file's metadata within a tenant.
// The binary content lives in object storage under StorageKey; the record here
// carries everything needed to authorize and locate it.
type File struct {
	ID          string     `json:"id"`
	Tenant      string     `json:"tenant"`
	FolderID    string     `json:"folder_id"`
	Owner       string     `json:"owner_id"`
	Visibility  Visibility `json:"visibility"`
	Filename    string     `json:"file_name"`
	StorageKey  string     `json:"-"`
	Size        int64      `json:"size"`
	ContentType string     `json:"mime_type"`
	Status      FileStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}
