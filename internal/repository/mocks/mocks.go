package mocks

import (
	"context"

	"github.com/rpggio/prodsched/internal/domain/activity"
	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Load(ctx context.Context) (*project.Document, error) {
	args := m.Called(ctx)
	if doc, ok := args.Get(0).(*project.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Replace(ctx context.Context, projects []project.Project, expectedVersion int64) (int64, error) {
	args := m.Called(ctx, projects, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
