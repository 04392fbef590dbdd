package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marblefiles/internal/model"
	"marblefiles/internal/repository"
)

// CreateFolderInput carries the caller-supplied fields of a new folder.
type CreateFolderInput struct {
	Name       string           `validate:"required"`
	Visibility model.Visibility `validate:"omitempty,oneof=private public"`
}

// FolderService defines the use cases for handling folders.
type FolderService interface {
	// Create stores a new folder owned by the calling identity.
	Create(ctx context.Context, identity model.Identity, in CreateFolderInput) (*model.Folder, error)

	// Get returns a folder by id within the identity's tenant.
	Get(ctx context.Context, identity model.Identity, folderID string) (*model.Folder, error)

	// List returns all folders in the identity's tenant.
	List(ctx context.Context, identity model.Identity) ([]model.Folder, error)
}

type folderService struct {
	folders repository.FolderRepository
}

// NewFolderService constructs a new FolderService.
func NewFolderService(folders repository.FolderRepository) FolderService {
	return &folderService{folders: folders}
}

func (s *folderService) Create(ctx context.Context, identity model.Identity, in CreateFolderInput) (*model.Folder, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid folder input: %w", err)
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = model.VisibilityPrivate
	}

	owner := identity.ID
	now := time.Now().UTC()
	f := &model.Folder{
		ID:         uuid.New().String(),
		Tenant:     identity.Tenant,
		Name:       in.Name,
		Visibility: visibility,
		Owner:      &owner,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return s.folders.Create(ctx, f)
}

func (s *folderService) Get(ctx context.Context, identity model.Identity, folderID string) (*model.Folder, error) {
	if folderID == "" {
		return nil, ErrFolderIDRequired
	}
	f, err := s.folders.FindByID(ctx, identity.Tenant, folderID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *folderService) List(ctx context.Context, identity model.Identity) ([]model.Folder, error) {
	return s.folders.List(ctx, identity.Tenant)
}
