package tiptap

import "unicode/utf8"

// TextVisitor вызывается для каждой текстовой ноды документа.
// text - содержимое ноды, base - абсолютная позиция первого символа
// в плоском адресном пространстве документа.
type TextVisitor func(text string, base int)

// DescendText обходит текстовые ноды документа в порядке следования (in-order, depth-first)
// и передает каждую из них визитору вместе с базовым смещением. Смещения совпадают
// с позициями выделения редактора: каждая граница контейнерной ноды занимает одну
// позицию, текст - по позиции на символ.
func DescendText(doc *TipTapDocument, fn TextVisitor) {
	pos := 0
	for _, node := range doc.Content {
		pos = descendNode(node, pos, fn)
	}
}

// descendNode обходит одну ноду начиная с позиции pos и возвращает позицию за ней.
func descendNode(node TipTapNode, pos int, fn TextVisitor) int {
	if node.Type == "text" {
		fn(node.Text, pos)
		return pos + utf8.RuneCountInString(node.Text)
	}

	// Листовые ноды без контента (image, hardBreak и т.п.) занимают одну позицию
	if len(node.Content) == 0 {
		return pos + 1
	}

	pos++
	for _, child := range node.Content {
		pos = descendNode(child, pos, fn)
	}
	return pos + 1
}
