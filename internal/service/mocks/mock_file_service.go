package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"marblefiles/internal/model"
	"marblefiles/internal/service"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, identity model.Identity, in service.UploadInput) (*model.File, error) {
	args := m.Called(ctx, identity, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Download(ctx context.Context, identity model.Identity, fileID string) (*service.FileDownload, error) {
	args := m.Called(ctx, identity, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileDownload), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, identity model.Identity, fileID string) (*model.File, error) {
	args := m.Called(ctx, identity, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, identity model.Identity, folderID string, limit, offset int) (*service.FileListResult, error) {
	args := m.Called(ctx, identity, folderID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileListResult), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, identity model.Identity, fileID string) error {
	args := m.Called(ctx, identity, fileID)
	return args.Error(0)
}
