// Пакет содержит определения ошибок, используемых в приложении aidoc для обработки ситуаций,
// возникающих при работе с сессиями редактора, черновиками и конвертацией документов.
// Каждая ошибка имеет код, статус HTTP и описание, что позволяет удобно обрабатывать
// исключения и предоставлять информативные сообщения пользователю.
//
// Основные возможности:
//   - Определение типов ошибок, связанных с сессиями редактора, черновиками, импортом и экспортом.
//   - Предоставление кодов ошибок, соответствующих кодам HTTP статусов.
//   - Функция для форматирования сообщений об ошибках с использованием аргументов.
package apierrors

import (
	"fmt"
	"net/http"
	"strings"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	RuErr      string `json:"ru_error,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

var (
	// 1*** - editor session errors
	ErrSessionNotFound       = DefinedError{Code: 1001, StatusCode: http.StatusNotFound, Err: "editor session not found", RuErr: "Сессия редактора не найдена"}
	ErrSessionContentInvalid = DefinedError{Code: 1002, StatusCode: http.StatusBadRequest, Err: "invalid editor content", RuErr: "Некорректное содержимое документа"}
	ErrPlaceholderNotFound   = DefinedError{Code: 1003, StatusCode: http.StatusNotFound, Err: "placeholder not found", RuErr: "Плейсхолдер не найден"}
	ErrSessionClosed         = DefinedError{Code: 1004, StatusCode: http.StatusGone, Err: "editor session is closed", RuErr: "Сессия редактора завершена"}

	// 2*** - draft errors
	ErrDraftNotFound      = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "draft not found", RuErr: "Черновик не найден"}
	ErrDraftSaveFailed    = DefinedError{Code: 2002, StatusCode: http.StatusServiceUnavailable, Err: "draft save failed", RuErr: "Не удалось сохранить черновик"}
	ErrDraftTitleTooLong  = DefinedError{Code: 2003, StatusCode: http.StatusBadRequest, Err: "draft title is too long", RuErr: "Название черновика слишком длинное"}
	ErrDraftContentEmpty  = DefinedError{Code: 2004, StatusCode: http.StatusBadRequest, Err: "draft content is empty", RuErr: "Черновик не содержит данных"}

	// 3*** - conversion errors
	ErrDocxParseFailed     = DefinedError{Code: 3001, StatusCode: http.StatusUnprocessableEntity, Err: "cannot parse docx file: %s", RuErr: "Не удалось разобрать DOCX файл: %s"}
	ErrDocxGenerateFailed  = DefinedError{Code: 3002, StatusCode: http.StatusUnprocessableEntity, Err: "cannot generate docx file: %s", RuErr: "Не удалось сформировать DOCX файл: %s"}
	ErrPdfGenerateFailed   = DefinedError{Code: 3003, StatusCode: http.StatusUnprocessableEntity, Err: "cannot generate pdf file: %s", RuErr: "Не удалось сформировать PDF файл: %s"}
	ErrUnsupportedFileType = DefinedError{Code: 3004, StatusCode: http.StatusBadRequest, Err: "unsupported file type, only .docx is allowed", RuErr: "Неподдерживаемый тип файла, разрешен только .docx"}
	ErrImportFileRequired  = DefinedError{Code: 3005, StatusCode: http.StatusBadRequest, Err: "import file is required", RuErr: "Не передан файл для импорта"}
	ErrArtifactNotFound    = DefinedError{Code: 3006, StatusCode: http.StatusNotFound, Err: "export artifact not found", RuErr: "Артефакт экспорта не найден"}

	// 4*** - generic errors
	ErrGeneric       = DefinedError{Code: 4001, StatusCode: http.StatusBadRequest, Err: "generic API error", RuErr: "Неизвестная ошибка"}
	// Предел подставляется из конфигурации через WithFormattedMessage
	ErrEntityToLarge = DefinedError{Code: 4002, StatusCode: http.StatusRequestEntityTooLarge, Err: "request entity too large, limit is %dMB", RuErr: "Превышен максимальный размер файла (%dМБ)"}
)

// WithFormattedMessage подставляет аргументы в текст ошибки и её перевод.
func (e DefinedError) WithFormattedMessage(args ...any) DefinedError {
	if strings.Contains(e.Err, "%") {
		e.Err = fmt.Sprintf(e.Err, args...)
	}
	if strings.Contains(e.RuErr, "%") {
		e.RuErr = fmt.Sprintf(e.RuErr, args...)
	}
	return e
}
