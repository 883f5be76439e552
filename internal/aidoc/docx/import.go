// Конвертация документов DOCX во внутреннюю модель документа и обратно.
// DOCX читается как zip-архив, word/document.xml разбирается потоковым
// XML-декодером без внешних библиотек.
//
// Основные возможности:
//   - Импорт: параграфы, выравнивание, списки, цитаты, блоки кода,
//     форматирование текста (жирный, курсив, подчёркивание, зачёркивание).
//   - Экспорт: сборка валидного OOXML пакета со стилями и нумерацией.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edtypes"
)

// Стили параграфов, используемые при экспорте и распознаваемые при импорте
const (
	styleQuote     = "Quote"
	styleCodeBlock = "CodeBlock"
)

type listKind int

const (
	listNone listKind = iota
	listBullet
	listNumbered
)

// Import разбирает DOCX и возвращает документ внутренней модели.
func Import(data []byte) (*edtypes.Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	var documentFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			documentFile = f
			break
		}
	}
	if documentFile == nil {
		return nil, errors.New("word/document.xml not found")
	}

	rc, err := documentFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open word/document.xml: %w", err)
	}
	defer rc.Close()

	return parseDocumentXML(rc)
}

type runMarks struct {
	bold      bool
	italic    bool
	underline bool
	strike    bool
}

type importState struct {
	doc edtypes.Document

	// Состояние текущего параграфа
	inParagraph bool
	inRun       bool
	inRunProps  bool
	inParaProps bool
	inText      bool
	marks       runMarks
	align       edtypes.TextAlign
	pStyle      string
	list        listKind
	content     []any

	// Накопленные элементы списка/цитаты, ждущие закрывающего параграфа
	// другого вида
	pendingList  *edtypes.List
	pendingQuote *edtypes.Quote
}

func parseDocumentXML(r io.Reader) (*edtypes.Document, error) {
	decoder := xml.NewDecoder(r)
	st := &importState{}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse word/document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			st.startElement(t)
		case xml.CharData:
			if st.inText {
				st.appendText(string(t))
			}
		case xml.EndElement:
			st.endElement(t)
		}
	}

	st.flushPending()
	return &st.doc, nil
}

func (st *importState) startElement(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		st.inParagraph = true
		st.content = nil
		st.align = edtypes.LeftAlign
		st.pStyle = ""
		st.list = listNone
	case "pPr":
		st.inParaProps = st.inParagraph
	case "r":
		st.inRun = true
		st.marks = runMarks{}
	case "rPr":
		st.inRunProps = st.inRun
	case "b":
		if st.inRunProps {
			st.marks.bold = boolVal(t)
		}
	case "i":
		if st.inRunProps {
			st.marks.italic = boolVal(t)
		}
	case "u":
		if st.inRunProps {
			st.marks.underline = attrVal(t, "val") != "none"
		}
	case "strike":
		if st.inRunProps {
			st.marks.strike = boolVal(t)
		}
	case "t":
		st.inText = st.inRun
	case "br":
		if st.inParagraph {
			st.content = append(st.content, edtypes.HardBreak{})
		}
	case "jc":
		if st.inParaProps {
			switch attrVal(t, "val") {
			case "center":
				st.align = edtypes.CenterAlign
			case "right", "end":
				st.align = edtypes.RightAlign
			}
		}
	case "pStyle":
		if st.inParaProps {
			st.pStyle = attrVal(t, "val")
		}
	case "numId":
		if st.inParaProps {
			if attrVal(t, "val") == numIDNumbered {
				st.list = listNumbered
			} else {
				st.list = listBullet
			}
		}
	}
}

func (st *importState) endElement(t xml.EndElement) {
	switch t.Name.Local {
	case "t":
		st.inText = false
	case "rPr":
		st.inRunProps = false
	case "r":
		st.inRun = false
	case "pPr":
		st.inParaProps = false
	case "p":
		if st.inParagraph {
			st.closeParagraph()
			st.inParagraph = false
		}
	}
}

func (st *importState) appendText(text string) {
	st.content = append(st.content, edtypes.Text{
		Content:       text,
		Strong:        st.marks.bold,
		Italic:        st.marks.italic,
		Underlined:    st.marks.underline,
		Strikethrough: st.marks.strike,
	})
}

// closeParagraph раскладывает завершённый параграф по виду: элемент списка,
// строка цитаты, блок кода или обычный параграф. Смежные элементы списков
// одного вида и строки цитат склеиваются.
func (st *importState) closeParagraph() {
	para := edtypes.Paragraph{Content: st.content, Align: st.align}

	switch {
	case st.list != listNone:
		numbered := st.list == listNumbered
		if st.pendingList == nil || st.pendingList.Numbered != numbered {
			st.flushPending()
			st.pendingList = &edtypes.List{Numbered: numbered}
		}
		st.pendingList.Elements = append(st.pendingList.Elements, edtypes.ListElement{Content: []edtypes.Paragraph{para}})
	case st.pStyle == styleQuote:
		if st.pendingQuote == nil {
			st.flushPending()
			st.pendingQuote = &edtypes.Quote{}
		}
		st.pendingQuote.Content = append(st.pendingQuote.Content, para)
	case st.pStyle == styleCodeBlock:
		st.flushPending()
		st.doc.Elements = append(st.doc.Elements, edtypes.Code{Content: paragraphText(para)})
	default:
		st.flushPending()
		st.doc.Elements = append(st.doc.Elements, para)
	}
}

func (st *importState) flushPending() {
	if st.pendingList != nil {
		st.doc.Elements = append(st.doc.Elements, *st.pendingList)
		st.pendingList = nil
	}
	if st.pendingQuote != nil {
		st.doc.Elements = append(st.doc.Elements, *st.pendingQuote)
		st.pendingQuote = nil
	}
}

func paragraphText(p edtypes.Paragraph) string {
	var sb strings.Builder
	for _, item := range p.Content {
		switch v := item.(type) {
		case edtypes.Text:
			sb.WriteString(v.Content)
		case edtypes.HardBreak:
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func attrVal(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// boolVal трактует свойство запуска как включённое, если атрибут val
// отсутствует либо не равен false/0
func boolVal(t xml.StartElement) bool {
	v := attrVal(t, "val")
	return v == "" || (v != "false" && v != "0" && v != "none")
}
