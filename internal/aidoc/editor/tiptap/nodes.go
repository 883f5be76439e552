package tiptap

import (
	"log/slog"
	"net/url"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edtypes"
)

// parseText преобразует текстовую ноду TipTap в edtypes.Text.
func parseText(node TipTapNode) edtypes.Text {
	text := edtypes.Text{
		Content: node.Text,
	}

	if len(node.Marks) > 0 {
		applyMarks(&text, node.Marks)
	}

	return text
}

// parseParagraph преобразует параграф TipTap в edtypes.Paragraph.
func parseParagraph(node TipTapNode) *edtypes.Paragraph {
	if node.Type != "paragraph" {
		return nil
	}

	p := &edtypes.Paragraph{
		Content: make([]any, 0),
		Align:   parseTextAlign(getAttrString(node.Attrs, "textAlign")),
	}

	for _, child := range node.Content {
		switch child.Type {
		case "text":
			p.Content = append(p.Content, parseText(child))
		case "image":
			if img := parseImage(child); img != nil {
				p.Content = append(p.Content, img)
			}
		case "hardBreak":
			p.Content = append(p.Content, &edtypes.HardBreak{})
		default:
			slog.Warn("Unknown paragraph child type", "type", child.Type)
		}
	}

	return p
}

// parseCodeBlock преобразует блок кода TipTap в edtypes.Code.
func parseCodeBlock(node TipTapNode) *edtypes.Code {
	if node.Type != "codeBlock" {
		return nil
	}

	var text string
	for _, child := range node.Content {
		if child.Type == "text" {
			text += child.Text
		}
	}

	return &edtypes.Code{
		Content:  text,
		Language: getAttrString(node.Attrs, "language"),
	}
}

// parseBlockquote преобразует цитату TipTap в edtypes.Quote.
func parseBlockquote(node TipTapNode) *edtypes.Quote {
	if node.Type != "blockquote" {
		return nil
	}

	quote := &edtypes.Quote{
		Content: make([]edtypes.Paragraph, 0),
	}

	for _, child := range node.Content {
		if p := parseParagraph(child); p != nil {
			quote.Content = append(quote.Content, *p)
		}
	}

	return quote
}

// parseImage преобразует изображение TipTap в edtypes.Image.
func parseImage(node TipTapNode) *edtypes.Image {
	if node.Type != "image" {
		return nil
	}

	src := getAttrString(node.Attrs, "src")
	if src == "" {
		return nil
	}

	imgUrl, err := url.Parse(src)
	if err != nil {
		slog.Warn("Failed to parse image URL", "src", src, "err", err)
		return nil
	}

	return &edtypes.Image{
		Src: imgUrl,
		Alt: getAttrString(node.Attrs, "alt"),
	}
}

// parseList преобразует список TipTap в edtypes.List.
func parseList(node TipTapNode) *edtypes.List {
	list := &edtypes.List{
		Elements: make([]edtypes.ListElement, 0),
	}

	switch node.Type {
	case "bulletList":
	case "orderedList":
		list.Numbered = true
	case "taskList":
		list.TaskList = true
	default:
		return nil
	}

	for _, child := range node.Content {
		if child.Type == "listItem" || child.Type == "taskItem" {
			if elem := parseListItem(child); elem != nil {
				list.Elements = append(list.Elements, *elem)
			}
		}
	}

	return list
}

// parseListItem преобразует элемент списка TipTap в edtypes.ListElement.
func parseListItem(node TipTapNode) *edtypes.ListElement {
	elem := &edtypes.ListElement{
		Content: make([]edtypes.Paragraph, 0),
	}

	if node.Type == "taskItem" {
		elem.Checked = getAttrBool(node.Attrs, "checked")
	}

	for _, child := range node.Content {
		if child.Type == "paragraph" {
			if p := parseParagraph(child); p != nil {
				elem.Content = append(elem.Content, *p)
			}
		}
	}

	return elem
}
