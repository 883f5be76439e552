package placeholder

import (
	"strings"
	"unicode"
)

// DeriveLabel выводит человекочитаемую метку из текста маркера.
// Для формы {{name|Display Label}} меткой становится предпоследний сегмент,
// разделенный символом '|'; для {{name}} и [name] - содержимое без разделителей.
// Если вывести непустую метку не удается, возвращается исходный текст маркера.
func DeriveLabel(raw string) string {
	switch {
	case len(raw) >= 4 && strings.HasPrefix(raw, "{{") && strings.HasSuffix(raw, "}}"):
		inner := raw[2 : len(raw)-2]
		parts := strings.Split(inner, "|")
		var label string
		if len(parts) >= 2 {
			label = strings.TrimSpace(parts[len(parts)-2])
		} else {
			label = strings.TrimSpace(inner)
		}
		if label == "" {
			return raw
		}
		return label
	case len(raw) >= 2 && strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]"):
		label := strings.TrimSpace(raw[1 : len(raw)-1])
		if label == "" {
			return raw
		}
		return label
	}
	return raw
}

// FormatLabel готовит метку к отображению в интерфейсе: убирает остатки скобок,
// заменяет дефисы и подчеркивания на пробелы и переводит первую букву каждого
// слова в верхний регистр. В записи индекса не хранится.
func FormatLabel(label string) string {
	label = strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '[', ']':
			return -1
		case '-', '_':
			return ' '
		}
		return r
	}, label)

	words := strings.Fields(label)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}
