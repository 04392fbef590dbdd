package postgres

import (
	"context"
	"database/sql"
	"errors"

	"marblefiles/internal/model"
	"marblefiles/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Tenant scoping and the deleted_at filter are part of every query.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = `id, tenant, folder_id, owner_id, visibility, file_name, storage_key, size, mime_type, status, created_at, updated_at`

// IsNoRowsError reports whether err means the query matched no row.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func scanFile(row interface{ Scan(dest ...any) error }) (*model.File, error) {
	var f model.File
	if err := row.Scan(
		&f.ID,
		&f.Tenant,
		&f.FolderID,
		&f.Owner,
		&f.Visibility,
		&f.Filename,
		&f.StorageKey,
		&f.Size,
		&f.ContentType,
		&f.Status,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (id, tenant, folder_id, owner_id, visibility, file_name, storage_key, size, mime_type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + fileColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Tenant,
		f.FolderID,
		f.Owner,
		f.Visibility,
		f.Filename,
		f.StorageKey,
		f.Size,
		f.ContentType,
		f.Status,
		f.CreatedAt,
		f.UpdatedAt,
	)
	return scanFile(row)
}

// FindByID fetches a single live file by id within the tenant.
func (r *FilePostgres) FindByID(ctx context.Context, tenant, id string) (*model.File, error) {
	const q = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE id = $1 AND tenant = $2 AND deleted_at IS NULL
	`
	return scanFile(r.db.QueryRowContext(ctx, q, id, tenant))
}

// ListByFolder returns viewer-readable files in a folder with LIMIT/OFFSET
// pagination and a total count.
func (r *FilePostgres) ListByFolder(ctx context.Context, tenant, folderID, viewerID string, pq repository.PageQuery) (*repository.PageResult[model.File], error) {
	const qCount = `
		SELECT COUNT(*)
		FROM files
		WHERE tenant = $1 AND folder_id = $2 AND deleted_at IS NULL
		  AND (visibility = 'public' OR owner_id = $3)
	`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, tenant, folderID, viewerID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE tenant = $1 AND folder_id = $2 AND deleted_at IS NULL
		  AND (visibility = 'public' OR owner_id = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.QueryContext(ctx, qList, tenant, folderID, viewerID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.File]{
		Items: items,
		Total: total,
	}, nil
}

// SoftDelete stamps deleted_at on a live row. Returns sql.ErrNoRows when no
// live row matched so callers can surface absence.
func (r *FilePostgres) SoftDelete(ctx context.Context, tenant, id string) error {
	const q = `
		UPDATE files
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND tenant = $2 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, q, id, tenant)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
