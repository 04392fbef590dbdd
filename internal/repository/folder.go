package repository

import (
	"context"

	"marblefiles/internal/model"
)

// FolderRepository defines data access for folder metadata.
type FolderRepository interface {
	// Create inserts a new folder record and returns the stored row.
	Create(ctx context.Context, f *model.Folder) (*model.Folder, error)

	// FindByID returns a live folder by id within the given tenant.
	FindByID(ctx context.Context, tenant, id string) (*model.Folder, error)

	// List returns all live folders in the tenant, oldest first.
	List(ctx context.Context, tenant string) ([]model.Folder, error)
}
