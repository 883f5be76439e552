package tiptap

import (
	"encoding/json"
	"log/slog"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edtypes"
)

// Serialize сериализует edtypes.Document в TipTap JSON.
func Serialize(doc *edtypes.Document) ([]byte, error) {
	tipTapDoc := TipTapDocument{
		Type:    "doc",
		Content: make([]TipTapNode, 0, len(doc.Elements)),
	}

	for _, elem := range doc.Elements {
		node := serializeElement(elem)
		if node != nil {
			tipTapDoc.Content = append(tipTapDoc.Content, *node)
		}
	}

	return json.Marshal(tipTapDoc)
}

// serializeElement преобразует элемент edtypes в TipTap ноду.
func serializeElement(elem any) *TipTapNode {
	if elem == nil {
		return nil
	}

	switch e := elem.(type) {
	case edtypes.Paragraph:
		return serializeParagraph(&e)
	case *edtypes.Paragraph:
		return serializeParagraph(e)
	case edtypes.Code:
		return serializeCode(&e)
	case *edtypes.Code:
		return serializeCode(e)
	case edtypes.Quote:
		return serializeQuote(&e)
	case *edtypes.Quote:
		return serializeQuote(e)
	case edtypes.List:
		return serializeList(&e)
	case *edtypes.List:
		return serializeList(e)
	case edtypes.Image:
		return serializeImage(&e)
	case *edtypes.Image:
		return serializeImage(e)
	default:
		slog.Warn("Unknown element type for serialization", "type", e)
		return nil
	}
}

func serializeText(text *edtypes.Text) *TipTapNode {
	return &TipTapNode{
		Type:  "text",
		Text:  text.Content,
		Marks: serializeMarks(text),
	}
}

func serializeParagraph(p *edtypes.Paragraph) *TipTapNode {
	node := &TipTapNode{
		Type:    "paragraph",
		Attrs:   map[string]interface{}{"textAlign": alignAttr(p.Align)},
		Content: make([]TipTapNode, 0, len(p.Content)),
	}

	for _, inline := range p.Content {
		switch t := inline.(type) {
		case edtypes.Text:
			node.Content = append(node.Content, *serializeText(&t))
		case *edtypes.Text:
			node.Content = append(node.Content, *serializeText(t))
		case edtypes.HardBreak, *edtypes.HardBreak:
			node.Content = append(node.Content, TipTapNode{Type: "hardBreak"})
		case edtypes.Image:
			if img := serializeImage(&t); img != nil {
				node.Content = append(node.Content, *img)
			}
		case *edtypes.Image:
			if img := serializeImage(t); img != nil {
				node.Content = append(node.Content, *img)
			}
		}
	}

	return node
}

func serializeCode(code *edtypes.Code) *TipTapNode {
	node := &TipTapNode{
		Type: "codeBlock",
	}
	if code.Language != "" {
		node.Attrs = map[string]interface{}{"language": code.Language}
	}
	if code.Content != "" {
		node.Content = []TipTapNode{{Type: "text", Text: code.Content}}
	}
	return node
}

func serializeQuote(quote *edtypes.Quote) *TipTapNode {
	node := &TipTapNode{
		Type:    "blockquote",
		Content: make([]TipTapNode, 0, len(quote.Content)),
	}
	for _, p := range quote.Content {
		node.Content = append(node.Content, *serializeParagraph(&p))
	}
	return node
}

func serializeList(list *edtypes.List) *TipTapNode {
	node := &TipTapNode{
		Content: make([]TipTapNode, 0, len(list.Elements)),
	}

	itemType := "listItem"
	switch {
	case list.TaskList:
		node.Type = "taskList"
		itemType = "taskItem"
	case list.Numbered:
		node.Type = "orderedList"
	default:
		node.Type = "bulletList"
	}

	for _, elem := range list.Elements {
		item := TipTapNode{
			Type:    itemType,
			Content: make([]TipTapNode, 0, len(elem.Content)),
		}
		if list.TaskList {
			item.Attrs = map[string]interface{}{"checked": elem.Checked}
		}
		for _, p := range elem.Content {
			item.Content = append(item.Content, *serializeParagraph(&p))
		}
		node.Content = append(node.Content, item)
	}

	return node
}

func serializeImage(img *edtypes.Image) *TipTapNode {
	if img.Src == nil {
		return nil
	}
	return &TipTapNode{
		Type: "image",
		Attrs: map[string]interface{}{
			"src": img.Src.String(),
			"alt": img.Alt,
		},
	}
}
