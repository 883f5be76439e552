// Пакет placeholder реализует подсистему поиска и индексации плейсхолдеров в документе.
// Плейсхолдер - это маркер шаблонной переменной в тексте документа вида {{ ... }} или [ ... ].
//
// Основные возможности:
//   - Поиск маркеров в тексте с вычислением смещений.
//   - Вывод человекочитаемой метки из текста маркера.
//   - Сканирование документа TipTap с построением упорядоченного индекса.
//   - Сравнение индексов для обнаружения изменений.
package placeholder

import (
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Маркер плейсхолдера: {{ ... }} (без вложенных скобок) или [ ... ].
// Совпадения не пересекаются и идут слева направо.
var markerRegexp = regexp.MustCompile(`\{\{.*?\}\}|\[.*?\]`)

// Token представляет одно совпадение маркера в фрагменте текста.
type Token struct {
	// Raw - совпавшая подстрока вместе с разделителями
	Raw string
	// Offset - смещение первого символа совпадения в тексте, в рунах
	Offset int
	// Length - длина совпадения в рунах
	Length int
}

// Match возвращает последовательность всех маркеров плейсхолдеров в тексте.
// Смещения считаются в рунах, чтобы совпадать с позициями выделения редактора.
func Match(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		prevByte, prevRunes := 0, 0
		for _, loc := range markerRegexp.FindAllStringIndex(text, -1) {
			raw := text[loc[0]:loc[1]]

			offset := prevRunes + utf8.RuneCountInString(text[prevByte:loc[0]])
			length := utf8.RuneCountInString(raw)
			prevByte, prevRunes = loc[1], offset+length

			if !yield(Token{Raw: raw, Offset: offset, Length: length}) {
				return
			}
		}
	}
}

// IsEmpty возвращает true для вырожденных маркеров: "[]", "{}", "{{}}" и любых
// маркеров, внутри которых после удаления разделителей и пробелов не остается символов.
func IsEmpty(raw string) bool {
	inner := raw
	switch {
	case len(raw) >= 4 && strings.HasPrefix(raw, "{{") && strings.HasSuffix(raw, "}}"):
		inner = raw[2 : len(raw)-2]
	case len(raw) >= 2 && strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}"):
		inner = raw[1 : len(raw)-1]
	case len(raw) >= 2 && strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]"):
		inner = raw[1 : len(raw)-1]
	}
	return strings.TrimSpace(inner) == ""
}
