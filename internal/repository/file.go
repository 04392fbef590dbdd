package repository

import (
	"context"

	"marblefiles/internal/model"
)

// FileRepository defines data access for file metadata using SQL queries only.
// No business logic here — strictly persistence operations.
type FileRepository interface {
	// Create inserts a new file record and returns the stored row.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// FindByID returns a live file by id within the given tenant.
	// Rows from other tenants or with deleted_at set never resolve.
	FindByID(ctx context.Context, tenant, id string) (*model.File, error)

	// ListByFolder returns the files in a folder that the viewer may read
	// (public rows plus the viewer's own), newest first.
	ListByFolder(ctx context.Context, tenant, folderID, viewerID string, pq PageQuery) (*PageResult[model.File], error)

	// SoftDelete marks a file deleted by setting deleted_at. Rows are never
	// physically removed by this service.
	SoftDelete(ctx context.Context, tenant, id string) error
}
