package dao

import (
	"errors"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ExportArtifact - запись о сформированном файле экспорта, сам файл лежит
// в файловом хранилище под тем же идентификатором.
type ExportArtifact struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	DraftID     uuid.NullUUID `json:"draft_id" gorm:"type:uuid"`
	Filename    string        `json:"filename"`
	ContentType string        `json:"content_type"`
	Kind        string        `json:"kind"` // docx | pdf
}

func (ExportArtifact) TableName() string { return "export_artifacts" }

// ArtifactStore - хранилище записей об артефактах экспорта поверх GORM.
type ArtifactStore struct {
	db *gorm.DB
}

func NewArtifactStore(db *gorm.DB) *ArtifactStore {
	return &ArtifactStore{db: db}
}

func (as *ArtifactStore) Create(artifact *ExportArtifact) error {
	if artifact.ID.IsNil() {
		artifact.ID = GenUUID()
	}
	return as.db.Create(artifact).Error
}

func (as *ArtifactStore) Get(id uuid.UUID) (*ExportArtifact, error) {
	var artifact ExportArtifact
	if err := as.db.Where("id = ?", id).First(&artifact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrArtifactNotFound
		}
		return nil, err
	}
	return &artifact, nil
}

// PruneOlderThan удаляет записи об артефактах, созданных до указанного момента.
// Возвращает идентификаторы удалённых записей, чтобы вызывающая сторона
// удалила файлы из хранилища.
func (as *ArtifactStore) PruneOlderThan(deadline time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := as.db.Model(&ExportArtifact{}).Where("created_at < ?", deadline).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := as.db.Where("id IN ?", ids).Delete(&ExportArtifact{}).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
