// Пакет для экспорта черновиков в PDF формат.
// Генерирует PDF из HTML разметки черновика через внутреннюю модель документа.
//
// Основные возможности:
//   - Заголовок черновика и дата последнего изменения.
//   - Параграфы с поддержкой стилей текста (жирный, курсив, подчеркнутый).
//   - Списки, цитаты и блоки кода.
package export

import (
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor"
	_ "github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap" // Регистрация TipTap парсера и сериализатора
)

const (
	bodyFont = "Helvetica"
	codeFont = "Courier"
)

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// DraftToFPDF рендерит черновик в PDF. Разметка берётся из HTML контента
// черновика, шрифты - стандартные, без встраивания.
func DraftToFPDF(draft *dao.Draft, out io.Writer) error {
	doc, err := editor.ParseDocument(strings.NewReader(draft.Content.Body))
	if err != nil {
		return fmt.Errorf("parse draft content: %w", err)
	}
	return DocumentToFPDF(draft.Title, doc, out)
}

func DocumentToFPDF(title string, doc *editor.Document, out io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "") // 210*297 mm

	w := pdfWriter{
		pdf: pdf,
		// Стандартные шрифты ограничены cp1252, непредставимые символы
		// заменяются переводчиком
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}

	pdf.SetHeaderFunc(func() {
		if title == "" {
			return
		}
		pdf.SetFont(bodyFont, "B", 18)
		pdf.Write(9, w.tr(title)+"\n")
		pdf.Ln(4)
	})

	pdf.AddPage()
	pdf.SetFont(bodyFont, "", 12)

	w.writeDocument(doc)

	if pdf.Err() {
		return fmt.Errorf("generate pdf: %w", pdf.Error())
	}
	return pdf.Output(out)
}

func (w *pdfWriter) writeDocument(doc *editor.Document) {
	if doc == nil {
		return
	}
	for _, rawElement := range doc.Elements {
		switch el := rawElement.(type) {
		case editor.Paragraph:
			w.writeParagraph(el)
		case editor.Quote:
			w.pdf.Ln(2)
			y1 := w.pdf.GetY()
			w.pdf.SetLeftMargin(13)
			for _, p := range el.Content {
				w.writeParagraph(p)
			}
			w.pdf.SetLeftMargin(10)

			w.pdf.SetLineWidth(0.5)
			w.pdf.SetDrawColor(74, 71, 82)
			w.pdf.Line(11, y1, 11, w.pdf.GetY())
			w.pdf.Ln(2)
		case editor.List:
			w.pdf.SetLeftMargin(13)
			for i, e := range el.Elements {
				if el.Numbered {
					w.write(fmt.Sprintf("%d.", i+1))
				} else {
					w.write("-")
				}
				for _, p := range e.Content {
					w.pdf.SetX(17)
					w.writeParagraph(p)
				}
			}
			w.pdf.SetLeftMargin(10)
		case editor.Code:
			w.writeCode(el)
		}
		w.pdf.SetX(10)
	}
}

func (w *pdfWriter) writeParagraph(p editor.Paragraph) {
	for _, t := range p.Content {
		switch tt := t.(type) {
		case editor.Text:
			w.writeText(tt)
		case *editor.Image:
			w.writeImageAlt(tt)
		case editor.Image:
			w.writeImageAlt(&tt)
		case editor.HardBreak:
			w.pdf.Ln(-1)
		}
	}
	w.pdf.Ln(-1)
}

func (w *pdfWriter) writeText(t editor.Text) {
	styleStr := ""
	if t.Strong {
		styleStr += "B"
	}
	if t.Italic {
		styleStr += "I"
	}
	if t.Strikethrough {
		styleStr += "S"
	}
	if t.Underlined {
		styleStr += "U"
	}
	w.pdf.SetFont(bodyFont, styleStr, 12)

	if t.URL != nil {
		w.write(t.Content, t.URL.String())
		return
	}
	w.write(t.Content)
}

// Изображения не встраиваются, вместо них выводится замещающий текст
func (w *pdfWriter) writeImageAlt(img *editor.Image) {
	alt := img.Alt
	if alt == "" {
		alt = "image"
	}
	w.pdf.SetFont(bodyFont, "I", 12)
	w.write("[" + alt + "]")
	w.pdf.SetFont(bodyFont, "", 12)
}

func (w *pdfWriter) writeCode(code editor.Code) {
	w.pdf.Ln(2)
	w.pdf.SetFont(codeFont, "", 11)
	w.pdf.SetFillColor(240, 240, 240)
	for _, line := range strings.Split(code.Content, "\n") {
		w.pdf.CellFormat(0, 5.5, w.tr(line), "", 1, "L", true, 0, "")
	}
	w.pdf.SetFont(bodyFont, "", 12)
	w.pdf.Ln(2)
}

func (w *pdfWriter) write(text string, link ...string) {
	_, s := w.pdf.GetFontSize()
	s += 0.1
	if len(link) > 0 {
		w.pdf.WriteLinkString(s, w.tr(text), link[0])
		return
	}
	w.pdf.WriteLinkString(s, w.tr(text), "")
}
