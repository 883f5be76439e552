package dao

import (
	"testing"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/glebarez/sqlite"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestArtifactStore(t *testing.T) *ArtifactStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return NewArtifactStore(db)
}

func TestArtifactCreateGet(t *testing.T) {
	store := newTestArtifactStore(t)

	draftID := GenUUID()
	artifact := ExportArtifact{
		DraftID:     uuid.NullUUID{UUID: draftID, Valid: true},
		Filename:    "Invoice template.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Kind:        "docx",
	}
	require.NoError(t, store.Create(&artifact))
	require.False(t, artifact.ID.IsNil())

	got, err := store.Get(artifact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Invoice template.docx", got.Filename)
	assert.Equal(t, "docx", got.Kind)
	require.True(t, got.DraftID.Valid)
	assert.Equal(t, draftID, got.DraftID.UUID)

	_, err = store.Get(GenUUID())
	assert.ErrorIs(t, err, apierrors.ErrArtifactNotFound)
}

func TestArtifactPrune(t *testing.T) {
	store := newTestArtifactStore(t)

	stale := ExportArtifact{Filename: "stale.pdf", ContentType: "application/pdf", Kind: "pdf"}
	require.NoError(t, store.Create(&stale))
	fresh := ExportArtifact{Filename: "fresh.pdf", ContentType: "application/pdf", Kind: "pdf"}
	require.NoError(t, store.Create(&fresh))

	require.NoError(t, store.db.Model(&stale).Update("created_at", time.Now().AddDate(0, 0, -40)).Error)

	ids, err := store.PruneOlderThan(time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, stale.ID, ids[0])

	_, err = store.Get(stale.ID)
	assert.ErrorIs(t, err, apierrors.ErrArtifactNotFound)
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)

	// Повторный запуск без устаревших записей
	ids, err = store.PruneOlderThan(time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Empty(t, ids)
}
