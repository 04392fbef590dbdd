package model

import "time"

// Folder groups files within a tenant and carries the default access posture
// for files placed in it.
//
// Owner is a pointer on purpose: a nil owner marks a tenant-root/shared folder
// that no single identity controls, which is distinct from an empty owner id.
type Folder struct {
	ID         string     `json:"id"`
	Tenant     string     `json:"tenant"`
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
	Owner      *string    `json:"owner_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"-"`
}

// IsOwnedBy reports whether the folder has an owner and it is the given identity id.
func (f *Folder) IsOwnedBy(identityID string) bool {
	return f.Owner != nil && *f.Owner == identityID
}
