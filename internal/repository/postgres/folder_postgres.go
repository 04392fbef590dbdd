package postgres

import (
	"context"
	"database/sql"

	"marblefiles/internal/model"
	"marblefiles/internal/repository"
)

// FolderPostgres is a PostgreSQL implementation of repository.FolderRepository.
type FolderPostgres struct {
	db *sql.DB
}

// NewFolderPostgres creates a new FolderPostgres repository.
func NewFolderPostgres(db *sql.DB) *FolderPostgres {
	return &FolderPostgres{db: db}
}

var _ repository.FolderRepository = (*FolderPostgres)(nil)

const folderColumns = `id, tenant, name, visibility, owner_id, created_at, updated_at`

func scanFolder(row interface{ Scan(dest ...any) error }) (*model.Folder, error) {
	var f model.Folder
	if err := row.Scan(
		&f.ID,
		&f.Tenant,
		&f.Name,
		&f.Visibility,
		&f.Owner,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new folder row and returns the stored record.
// Owner may be nil for a tenant-root/shared folder.
func (r *FolderPostgres) Create(ctx context.Context, f *model.Folder) (*model.Folder, error) {
	const q = `
		INSERT INTO folders (id, tenant, name, visibility, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + folderColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Tenant,
		f.Name,
		f.Visibility,
		f.Owner,
		f.CreatedAt,
		f.UpdatedAt,
	)
	return scanFolder(row)
}

// FindByID fetches a single live folder by id within the tenant.
func (r *FolderPostgres) FindByID(ctx context.Context, tenant, id string) (*model.Folder, error) {
	const q = `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE id = $1 AND tenant = $2 AND deleted_at IS NULL
	`
	return scanFolder(r.db.QueryRowContext(ctx, q, id, tenant))
}

// List returns all live folders in the tenant.
func (r *FolderPostgres) List(ctx context.Context, tenant string) ([]model.Folder, error) {
	const q = `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE tenant = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
