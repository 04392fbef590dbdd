package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"marblefiles/internal/model"
	"marblefiles/internal/service"
)

type MockFolderService struct {
	mock.Mock
}

func (m *MockFolderService) Create(ctx context.Context, identity model.Identity, in service.CreateFolderInput) (*model.Folder, error) {
	args := m.Called(ctx, identity, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Get(ctx context.Context, identity model.Identity, folderID string) (*model.Folder, error) {
	args := m.Called(ctx, identity, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) List(ctx context.Context, identity model.Identity) ([]model.Folder, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}
