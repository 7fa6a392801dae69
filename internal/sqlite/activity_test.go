package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/prodsched/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	projectID := int64(1770000000000)
	base := time.Date(2026, time.February, 6, 9, 0, 0, 0, time.UTC)
	entry1 := &activity.ActivityEntry{
		ProjectID:    &projectID,
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created project",
		Details:      `{"id":1770000000000}`,
		Version:      1,
		CreatedAt:    base,
	}
	entry2 := &activity.ActivityEntry{
		ActivityType: activity.TypeProjectsImported,
		Summary:      "imported 3 projects",
		Version:      2,
		CreatedAt:    base.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeProjectsImported, entries[0].ActivityType)
	require.Nil(t, entries[0].ProjectID)
	require.Equal(t, activity.TypeProjectCreated, entries[1].ActivityType)
	require.NotNil(t, entries[1].ProjectID)
	require.Equal(t, projectID, *entries[1].ProjectID)
	require.Equal(t, int64(1), entries[1].Version)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	p1, p2 := int64(1), int64(2)
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	for i, e := range []*activity.ActivityEntry{
		{ProjectID: &p1, ActivityType: activity.TypeProjectCreated, Summary: "a"},
		{ProjectID: &p1, ActivityType: activity.TypeProductionRecorded, Summary: "b"},
		{ProjectID: &p2, ActivityType: activity.TypeProductionRecorded, Summary: "c"},
	} {
		e.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Log(ctx, e))
	}

	recorded := activity.TypeProductionRecorded
	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: &p1, ActivityType: &recorded})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "b", entries[0].Summary)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "b", entries[0].Summary)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a", entries[0].Summary)
}
