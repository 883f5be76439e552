package dao

import (
	"errors"
	"testing"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/types"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *DraftStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return NewDraftStore(db)
}

func TestDraftCRUD(t *testing.T) {
	store := newTestStore(t)

	draft := Draft{
		Title:       "Invoice template",
		Content:     types.RedactorHTML{Body: "<p>Dear {{client_name}}</p>", AlreadySanitized: true},
		ContentJSON: types.JSONB(`{"type":"doc","content":[]}`),
	}
	require.NoError(t, store.Save(&draft))
	require.False(t, draft.ID.IsNil())

	got, err := store.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Invoice template", got.Title)
	assert.Equal(t, "<p>Dear {{client_name}}</p>", got.Content.Body)
	assert.JSONEq(t, `{"type":"doc","content":[]}`, string(got.ContentJSON))

	got.Title = "Invoice template v2"
	require.NoError(t, store.Save(got))

	updated, err := store.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Invoice template v2", updated.Title)

	require.NoError(t, store.Delete(draft.ID))
	_, err = store.Get(draft.ID)
	assert.ErrorIs(t, err, apierrors.ErrDraftNotFound)
	assert.ErrorIs(t, store.Delete(draft.ID), apierrors.ErrDraftNotFound)
}

func TestDraftListOrder(t *testing.T) {
	store := newTestStore(t)

	older := Draft{Title: "older"}
	require.NoError(t, store.Save(&older))
	newer := Draft{Title: "newer"}
	require.NoError(t, store.Save(&newer))

	// Обновление делает старый черновик самым свежим
	require.NoError(t, store.db.Model(&older).Update("updated_at", time.Now().Add(time.Hour)).Error)

	drafts, err := store.List()
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "older", drafts[0].Title)
	assert.Equal(t, "newer", drafts[1].Title)
}

func TestDraftTitleTooLong(t *testing.T) {
	store := newTestStore(t)

	title := make([]rune, MaxDraftTitleLen+1)
	for i := range title {
		title[i] = 'я'
	}
	err := store.Save(&Draft{Title: string(title)})
	assert.ErrorIs(t, err, apierrors.ErrDraftTitleTooLong)
}

func TestDraftPrune(t *testing.T) {
	store := newTestStore(t)

	stale := Draft{Title: "stale"}
	require.NoError(t, store.Save(&stale))
	fresh := Draft{Title: "fresh"}
	require.NoError(t, store.Save(&fresh))

	require.NoError(t, store.db.Model(&stale).Update("updated_at", time.Now().AddDate(0, 0, -40)).Error)

	removed, err := store.PruneOlderThan(time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	drafts, err := store.List()
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "fresh", drafts[0].Title)

	var errNotFound error
	_, errNotFound = store.Get(stale.ID)
	assert.True(t, errors.Is(errNotFound, apierrors.ErrDraftNotFound))
}