package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"marblefiles/internal/model"
	"marblefiles/internal/repository"
)

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, f *model.File) (*model.File, error) {
	args := m.Called(ctx, f)
	if fn, ok := args.Get(0).(func(context.Context, *model.File) *model.File); ok {
		return fn(ctx, f), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) FindByID(ctx context.Context, tenant, id string) (*model.File, error) {
	args := m.Called(ctx, tenant, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) ListByFolder(ctx context.Context, tenant, folderID, viewerID string, pq repository.PageQuery) (*repository.PageResult[model.File], error) {
	args := m.Called(ctx, tenant, folderID, viewerID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.File]), args.Error(1)
}

func (m *MockFileRepository) SoftDelete(ctx context.Context, tenant, id string) error {
	args := m.Called(ctx, tenant, id)
	return args.Error(0)
}
