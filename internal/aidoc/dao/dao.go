// DAO (Data Access Object) - предоставляет интерфейс для взаимодействия с
// базой данных. Содержит функции для работы с черновиками документов-шаблонов.
//
// Основные возможности:
//   - CRUD операции над черновиками (создание, чтение, обновление, удаление).
//   - Список черновиков, отсортированный по времени последнего изменения.
//   - Удаление черновиков, не менявшихся дольше срока хранения.
//   - Учёт артефактов экспорта (DOCX, PDF) с очисткой по сроку хранения.
package dao

import (
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// GenUUID генерирует уникальный идентификатор в формате UUID.
func GenUUID() uuid.UUID {
	u2, _ := uuid.NewV4()
	return u2
}

// Migrate создаёт или обновляет схему всех моделей пакета.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Draft{}, &ExportArtifact{})
}
