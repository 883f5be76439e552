// DTO (Data Transfer Objects) для передачи данных между слоями приложения.
// Содержит облегчённые представления сущностей для ответов API.
package dto

import (
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/types"
)

type DraftLight struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Draft struct {
	DraftLight
	Content     types.RedactorHTML `json:"content"`
	ContentJSON types.JSONB        `json:"content_json,omitempty" extensions:"x-nullable"`
}
