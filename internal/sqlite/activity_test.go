package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/dossier/internal/domain/activity"
)

func TestActivityRepository_AppendList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1")

	repo := NewActivityRepository(db)
	entry1 := &activity.Entry{
		ProjectID: "p1",
		Kind:      activity.KindProjectCreated,
		Summary:   "created project",
	}
	agent := "research"
	entry2 := &activity.Entry{
		ProjectID: "p1",
		Agent:     &agent,
		Kind:      activity.KindCaseFileSummarized,
		Summary:   "summarized research",
		Details:   `{"stored":true}`,
	}

	require.NoError(t, repo.Append(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Append(ctx, entry2))
	require.NotZero(t, entry2.ID)

	entries, err := repo.List(ctx, activity.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.Kind, entries[0].Kind)
	require.Equal(t, "research", *entries[0].Agent)
	require.Equal(t, `{"stored":true}`, entries[0].Details)
	require.Equal(t, entry1.Kind, entries[1].Kind)
	require.Nil(t, entries[1].Agent)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1")
	insertProject(t, db, "p2")

	repo := NewActivityRepository(db)
	agent := "concept"
	require.NoError(t, repo.Append(ctx, &activity.Entry{ProjectID: "p1", Agent: &agent, Kind: activity.KindMessageExchanged, Summary: "chat"}))
	require.NoError(t, repo.Append(ctx, &activity.Entry{ProjectID: "p1", Kind: activity.KindProjectUpdated, Summary: "renamed"}))
	require.NoError(t, repo.Append(ctx, &activity.Entry{ProjectID: "p2", Kind: activity.KindProjectCreated, Summary: "created"}))

	entries, err := repo.List(ctx, activity.ListOptions{ProjectID: "p1", Agent: &agent})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.KindMessageExchanged, entries[0].Kind)

	kind := activity.KindProjectCreated
	entries, err = repo.List(ctx, activity.ListOptions{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "p2", entries[0].ProjectID)

	entries, err = repo.List(ctx, activity.ListOptions{ProjectID: "p1", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListOptions{ProjectID: "p1", Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.KindMessageExchanged, entries[0].Kind)
}
