package editor

import (
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edtypes"
)

// Реэкспорт всех типов из edtypes для обратной совместимости
type (
	TextAlign   = edtypes.TextAlign
	Document    = edtypes.Document
	Paragraph   = edtypes.Paragraph
	Text        = edtypes.Text
	Code        = edtypes.Code
	ListElement = edtypes.ListElement
	List        = edtypes.List
	Quote       = edtypes.Quote
	Image       = edtypes.Image
	HardBreak   = edtypes.HardBreak
)

// Реэкспорт констант
const (
	LeftAlign   = edtypes.LeftAlign
	CenterAlign = edtypes.CenterAlign
	RightAlign  = edtypes.RightAlign
)
