package dao

import (
	"errors"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dto"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const MaxDraftTitleLen = 150

type Draft struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`

	Title       string             `json:"title"`
	Content     types.RedactorHTML `json:"content"`
	ContentJSON types.JSONB        `json:"content_json" gorm:"type:jsonb"`
}

func (Draft) TableName() string { return "drafts" }

func (d *Draft) ToLightDTO() *dto.DraftLight {
	if d == nil {
		return nil
	}
	return &dto.DraftLight{
		ID:        d.ID.String(),
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d *Draft) ToDTO() *dto.Draft {
	if d == nil {
		return nil
	}
	return &dto.Draft{
		DraftLight:  *d.ToLightDTO(),
		Content:     d.Content,
		ContentJSON: d.ContentJSON,
	}
}

// DraftStore - явное хранилище черновиков поверх GORM.
type DraftStore struct {
	db *gorm.DB
}

func NewDraftStore(db *gorm.DB) *DraftStore {
	return &DraftStore{db: db}
}

// List возвращает черновики, отсортированные от недавно изменённых к старым.
func (ds *DraftStore) List() ([]Draft, error) {
	var drafts []Draft
	if err := ds.db.Order("updated_at desc").Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

func (ds *DraftStore) Get(id uuid.UUID) (*Draft, error) {
	var draft Draft
	if err := ds.db.Where("id = ?", id).First(&draft).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrDraftNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// Save создаёт черновик либо обновляет существующий по первичному ключу.
func (ds *DraftStore) Save(draft *Draft) error {
	if len([]rune(draft.Title)) > MaxDraftTitleLen {
		return apierrors.ErrDraftTitleTooLong
	}
	if draft.ID.IsNil() {
		draft.ID = GenUUID()
	}
	return ds.db.Save(draft).Error
}

func (ds *DraftStore) Delete(id uuid.UUID) error {
	res := ds.db.Where("id = ?", id).Delete(&Draft{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierrors.ErrDraftNotFound
	}
	return nil
}

// PruneOlderThan удаляет черновики, не менявшиеся с указанного момента.
// Возвращает количество удалённых строк.
func (ds *DraftStore) PruneOlderThan(deadline time.Time) (int64, error) {
	res := ds.db.Where("updated_at < ?", deadline).Delete(&Draft{})
	return res.RowsAffected, res.Error
}
