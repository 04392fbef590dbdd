package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"marblefiles/internal/access"
	"marblefiles/internal/model"
	"marblefiles/internal/repository"
	"marblefiles/internal/storage"
)

const (
	// Fallbacks applied when the stored object carries no content type or the
	// record carries no display name.
	defaultContentType = "text/plain; charset=utf-8"
	defaultFilename    = "document.txt"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// UploadInput carries everything needed to place a new file into a folder.
// Visibility left empty inherits the destination folder's visibility.
type UploadInput struct {
	Reader      io.Reader
	Filename    string           `validate:"required"`
	ContentType string
	Size        int64            `validate:"gte=0"`
	FolderID    string           `validate:"required"`
	Visibility  model.Visibility `validate:"omitempty,oneof=private public"`
}

// FileDownload is the service-level result of a retrieval: a content stream
// plus the resolved content type and display filename.
type FileDownload struct {
	Content     io.ReadCloser
	ContentType string
	Filename    string
	Size        int64
}

// FileListResult is the service-level DTO for paginated files.
type FileListResult struct {
	Items []model.File `json:"data"`
	Total int          `json:"total"`
}

// FileService defines the use cases for handling files on behalf of an identity.
type FileService interface {
	// Upload places the content into the destination folder after the write
	// decision passes: object storage first, then the metadata row, rolling
	// back storage if the row cannot be saved.
	Upload(ctx context.Context, identity model.Identity, in UploadInput) (*model.File, error)

	// Download resolves the file's metadata, applies the read decision, and
	// streams the stored bytes back with content type and filename resolved.
	Download(ctx context.Context, identity model.Identity, fileID string) (*FileDownload, error)

	// Get returns a single file's metadata after the read decision passes.
	Get(ctx context.Context, identity model.Identity, fileID string) (*model.File, error)

	// List returns the files in a folder the identity may read.
	List(ctx context.Context, identity model.Identity, folderID string, limit, offset int) (*FileListResult, error)

	// Delete soft-deletes a file the identity owns and removes its blob.
	Delete(ctx context.Context, identity model.Identity, fileID string) error
}

// fileService is a concrete implementation of FileService.
type fileService struct {
	store   storage.Storage
	files   repository.FileRepository
	folders repository.FolderRepository
}

// NewFileService constructs a new FileService.
func NewFileService(store storage.Storage, files repository.FileRepository, folders repository.FolderRepository) FileService {
	return &fileService{store: store, files: files, folders: folders}
}

func (s *fileService) Upload(ctx context.Context, identity model.Identity, in UploadInput) (*model.File, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if err := validate.Struct(in); err != nil {
		if in.FolderID == "" {
			return nil, ErrFolderIDRequired
		}
		return nil, fmt.Errorf("invalid upload input: %w", err)
	}

	folder, err := s.folders.FindByID(ctx, identity.Tenant, in.FolderID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}

	// The write decision runs against the destination folder; the file does
	// not exist yet.
	if d := access.Decide(identity, access.OperationWrite, nil, folder); !d.Allowed {
		if d.Reason == access.ReasonNotFound {
			return nil, ErrFolderNotFound
		}
		return nil, &AccessDeniedError{Reason: d.Reason}
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = folder.Visibility
	}

	fileID := uuid.New().String()
	ext := filepath.Ext(in.Filename)
	key := fmt.Sprintf("users/%s/%s/%s%s", identity.ID, folder.ID, fileID, ext)

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	f := &model.File{
		ID:          fileID,
		Tenant:      identity.Tenant,
		FolderID:    folder.ID,
		Owner:       identity.ID,
		Visibility:  visibility,
		Filename:    in.Filename,
		StorageKey:  objInfo.Key,
		Size:        objInfo.Size,
		ContentType: in.ContentType,
		Status:      model.FileStatusReady,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := s.files.Create(ctx, f)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// Download is the retrieval pipeline: metadata lookup, read decision, blob
// fetch, then content-type and filename resolution.
func (s *fileService) Download(ctx context.Context, identity model.Identity, fileID string) (*FileDownload, error) {
	f, err := s.lookupForRead(ctx, identity, fileID)
	if err != nil {
		return nil, err
	}

	// A ready record must reference its blob; an empty key is a server-side
	// inconsistency, not absence.
	if f.StorageKey == "" {
		return nil, ErrMissingStorageKey
	}

	content, objInfo, err := s.store.Get(ctx, f.StorageKey)
	if err != nil {
		if isObjectMissing(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("fetch from storage: %w", err)
	}

	contentType := objInfo.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	filename := f.Filename
	if filename == "" {
		filename = defaultFilename
	}

	return &FileDownload{
		Content:     content,
		ContentType: contentType,
		Filename:    filename,
		Size:        objInfo.Size,
	}, nil
}

// Get returns a file's metadata under the same read gate as Download.
func (s *fileService) Get(ctx context.Context, identity model.Identity, fileID string) (*model.File, error) {
	return s.lookupForRead(ctx, identity, fileID)
}

// lookupForRead resolves a file row and applies the read decision. The parent
// folder is not consulted: a file's own visibility is authoritative for reads.
func (s *fileService) lookupForRead(ctx context.Context, identity model.Identity, fileID string) (*model.File, error) {
	if fileID == "" {
		return nil, ErrFileIDRequired
	}
	f, err := s.files.FindByID(ctx, identity.Tenant, fileID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	if d := access.Decide(identity, access.OperationRead, f, nil); !d.Allowed {
		if d.Reason == access.ReasonNotFound {
			return nil, ErrFileNotFound
		}
		return nil, &AccessDeniedError{Reason: d.Reason}
	}
	return f, nil
}

// List returns viewer-readable files in a folder; the repository filters rows
// to public ones plus the viewer's own.
func (s *fileService) List(ctx context.Context, identity model.Identity, folderID string, limit, offset int) (*FileListResult, error) {
	if folderID == "" {
		return nil, ErrFolderIDRequired
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.files.ListByFolder(ctx, identity.Tenant, folderID, identity.ID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &FileListResult{Items: res.Items, Total: res.Total}, nil
}

// Delete removes the blob, then soft-deletes the row. Only the file's owner
// may delete it.
func (s *fileService) Delete(ctx context.Context, identity model.Identity, fileID string) error {
	if fileID == "" {
		return ErrFileIDRequired
	}
	f, err := s.files.FindByID(ctx, identity.Tenant, fileID)
	if err != nil {
		if isNoRows(err) {
			return ErrFileNotFound
		}
		return err
	}
	if f.Owner != identity.ID {
		return &AccessDeniedError{Reason: access.ReasonOwner}
	}
	// Delete from storage first; if this fails, keep the row so the storage
	// reference is not lost.
	if f.StorageKey != "" {
		if err := s.store.Delete(ctx, f.StorageKey); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	return s.files.SoftDelete(ctx, identity.Tenant, fileID)
}
