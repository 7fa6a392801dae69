package project

import (
	"context"

	"github.com/rpggio/prodsched/internal/domain/activity"
)

// AnyVersion disables the version check on Replace; the last writer wins.
const AnyVersion int64 = -1

// Repository persists the project collection as a single document.
type Repository interface {
	Load(ctx context.Context) (*Document, error)
	Replace(ctx context.Context, projects []Project, expectedVersion int64) (int64, error)
}

// ActivityRepository records writes to the document.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
