// Пакет для валидации данных запросов AIDoc. Использует библиотеку
// go-playground/validator для выполнения проверок.
//
// Основные возможности:
//   - Валидация полей запросов с использованием предопределенных валидаторов.
//   - Проверка названий черновиков и имён файлов экспорта.
package aidoc

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator"
)

var exportFilenameRegex = regexp.MustCompile(`^[^/\\:*?"<>|]+$`)

type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	if err := v.RegisterValidation("draftTitle", draftTitleValidator); err != nil {
		return nil
	}
	if err := v.RegisterValidation("exportFilename", exportFilenameValidator); err != nil {
		return nil
	}
	return &RequestValidator{v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validator.Struct(i); err != nil {
		_, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil
		}
		return err
	}
	return nil
}

func draftTitleValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return utf8.RuneCountInString(value) <= 150
}

func exportFilenameValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	lenStr := utf8.RuneCountInString(value)
	return lenStr <= 120 && exportFilenameRegex.MatchString(value)
}
