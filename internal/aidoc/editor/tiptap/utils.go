package tiptap

import (
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edtypes"
)

// getAttrString безопасно извлекает строковый атрибут из map.
func getAttrString(attrs map[string]interface{}, key string) string {
	if attrs == nil {
		return ""
	}
	val, ok := attrs[key]
	if !ok {
		return ""
	}
	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// getAttrBool безопасно извлекает булевый атрибут из map.
func getAttrBool(attrs map[string]interface{}, key string) bool {
	if attrs == nil {
		return false
	}
	val, ok := attrs[key]
	if !ok {
		return false
	}
	b, ok := val.(bool)
	if !ok {
		return false
	}
	return b
}

// parseTextAlign конвертирует строковое значение выравнивания в TextAlign.
func parseTextAlign(align string) edtypes.TextAlign {
	switch strings.TrimSpace(strings.ToLower(align)) {
	case "left":
		return edtypes.LeftAlign
	case "center":
		return edtypes.CenterAlign
	case "right":
		return edtypes.RightAlign
	default:
		return edtypes.LeftAlign
	}
}

// alignAttr конвертирует TextAlign обратно в строковое значение атрибута.
func alignAttr(align edtypes.TextAlign) string {
	switch align {
	case edtypes.CenterAlign:
		return "center"
	case edtypes.RightAlign:
		return "right"
	default:
		return "left"
	}
}
