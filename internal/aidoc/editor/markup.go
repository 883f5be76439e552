package editor

import (
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// TipTapFromMarkup конвертирует HTML-разметку в TipTap дерево и его
// JSON-представление. Используется, когда у черновика есть только разметка
// без сохранённого дерева: дальше по дереву идёт сканирование документа.
func TipTapFromMarkup(markup string) (*tiptap.TipTapDocument, []byte, error) {
	doc, err := ParseDocument(strings.NewReader(markup))
	if err != nil {
		return nil, nil, err
	}

	raw, err := tiptap.Serialize(doc)
	if err != nil {
		return nil, nil, err
	}

	tree, err := tiptap.ParseDocument(raw)
	if err != nil {
		return nil, nil, err
	}
	return tree, raw, nil
}
