// Пакет tiptap предоставляет инструменты для работы с JSON-контентом TipTap редактора.
// Поддерживает разбор JSON в структуры данных пакета edtypes, обратную сериализацию
// и обход текстовых нод документа с вычислением абсолютных смещений.
package tiptap

import (
	"encoding/json"
	"unicode/utf8"
)

// TipTapDocument представляет корневой документ TipTap.
type TipTapDocument struct {
	Type    string       `json:"type"`
	Content []TipTapNode `json:"content,omitempty"`
}

// TipTapNode представляет узел в дереве документа TipTap.
// Используется универсальная структура с map для атрибутов для поддержки различных типов нод.
type TipTapNode struct {
	Type    string                 `json:"type"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []TipTapNode           `json:"content,omitempty"`
	Marks   []TipTapMark           `json:"marks,omitempty"`
	Text    string                 `json:"text,omitempty"`
}

// TipTapMark представляет форматирование текста (bold, italic, link и т.д.).
type TipTapMark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// ParseDocument разбирает сырой TipTap JSON в дерево нод без преобразования в edtypes.
func ParseDocument(data []byte) (*TipTapDocument, error) {
	var doc TipTapDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Type == "" {
		doc.Type = "doc"
	}
	return &doc, nil
}

// Size возвращает размер ноды в плоском адресном пространстве документа.
// Текстовая нода занимает столько позиций, сколько в ней символов; листовая
// нода занимает одну позицию; контейнерная - размер содержимого плюс две
// позиции на границы.
func (n TipTapNode) Size() int {
	if n.Type == "text" {
		return utf8.RuneCountInString(n.Text)
	}
	if len(n.Content) == 0 {
		return 1
	}
	size := 2
	for _, child := range n.Content {
		size += child.Size()
	}
	return size
}

// ContentSize возвращает суммарный размер содержимого документа.
func (d *TipTapDocument) ContentSize() int {
	size := 0
	for _, n := range d.Content {
		size += n.Size()
	}
	return size
}
