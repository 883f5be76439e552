package tiptap

import (
	"log/slog"
	"net/url"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edtypes"
)

// applyMarks применяет форматирование (marks) к текстовому элементу.
func applyMarks(text *edtypes.Text, marks []TipTapMark) {
	for _, mark := range marks {
		switch mark.Type {
		case "bold":
			text.Strong = true
		case "italic":
			text.Italic = true
		case "underline":
			text.Underlined = true
		case "strike":
			text.Strikethrough = true
		case "code":
			text.Code = true
		case "link":
			applyLink(text, mark.Attrs)
		default:
			slog.Debug("Unknown mark type", "type", mark.Type)
		}
	}
}

// applyLink применяет ссылку к тексту.
func applyLink(text *edtypes.Text, attrs map[string]interface{}) {
	href := getAttrString(attrs, "href")
	if href != "" {
		u, err := url.Parse(href)
		if err == nil {
			text.URL = u
		}
	}
}

// serializeMarks собирает marks обратно из полей текстового элемента.
func serializeMarks(text *edtypes.Text) []TipTapMark {
	var marks []TipTapMark

	if text.Strong {
		marks = append(marks, TipTapMark{Type: "bold"})
	}
	if text.Italic {
		marks = append(marks, TipTapMark{Type: "italic"})
	}
	if text.Underlined {
		marks = append(marks, TipTapMark{Type: "underline"})
	}
	if text.Strikethrough {
		marks = append(marks, TipTapMark{Type: "strike"})
	}
	if text.Code {
		marks = append(marks, TipTapMark{Type: "code"})
	}
	if text.URL != nil {
		marks = append(marks, TipTapMark{
			Type:  "link",
			Attrs: map[string]interface{}{"href": text.URL.String()},
		})
	}

	return marks
}
