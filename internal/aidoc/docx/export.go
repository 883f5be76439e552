package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edtypes"
)

// Идентификаторы нумерации в word/numbering.xml
const (
	numIDBullet   = "1"
	numIDNumbered = "2"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>
</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:styleId="Normal" w:default="1"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="720"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="CodeBlock"><w:name w:val="Code Block"/><w:basedOn w:val="Normal"/><w:rPr><w:rFonts w:ascii="Courier New" w:hAnsi="Courier New"/></w:rPr></w:style>
</w:styles>`

const numberingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:abstractNum w:abstractNumId="1"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum>
<w:abstractNum w:abstractNumId="2"><w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="1"/></w:num>
<w:num w:numId="2"><w:abstractNumId w:val="2"/></w:num>
</w:numbering>`

// Export собирает DOCX пакет из документа внутренней модели.
func Export(doc *edtypes.Document, w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/numbering.xml", numberingXML},
		{"word/document.xml", buildDocumentXML(doc)},
	}
	for _, part := range parts {
		fw, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := fw.Write([]byte(part.content)); err != nil {
			return fmt.Errorf("write %s: %w", part.name, err)
		}
	}

	return zw.Close()
}

func buildDocumentXML(doc *edtypes.Document) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	if doc != nil {
		for _, element := range doc.Elements {
			writeElement(&sb, element)
		}
	}

	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func writeElement(sb *strings.Builder, element any) {
	switch v := element.(type) {
	case edtypes.Paragraph:
		writeParagraph(sb, v, paraProps{align: v.Align})
	case *edtypes.Paragraph:
		writeParagraph(sb, *v, paraProps{align: v.Align})
	case edtypes.List:
		writeList(sb, v)
	case *edtypes.List:
		writeList(sb, *v)
	case edtypes.Quote:
		for _, para := range v.Content {
			writeParagraph(sb, para, paraProps{style: styleQuote, align: para.Align})
		}
	case *edtypes.Quote:
		writeElement(sb, *v)
	case edtypes.Code:
		writeCode(sb, v)
	case *edtypes.Code:
		writeCode(sb, *v)
	case edtypes.Image:
		// Изображения в DOCX не встраиваются, выводится замещающий текст
		if v.Alt != "" {
			writeParagraph(sb, edtypes.Paragraph{Content: []any{edtypes.Text{Content: "[" + v.Alt + "]", Italic: true}}}, paraProps{})
		}
	case *edtypes.Image:
		writeElement(sb, *v)
	}
}

type paraProps struct {
	style string
	align edtypes.TextAlign
	numID string
}

func writeParagraph(sb *strings.Builder, p edtypes.Paragraph, props paraProps) {
	sb.WriteString("<w:p>")
	writeParaProps(sb, props)
	for _, item := range p.Content {
		switch v := item.(type) {
		case edtypes.Text:
			writeRun(sb, v)
		case *edtypes.Text:
			writeRun(sb, *v)
		case edtypes.HardBreak, *edtypes.HardBreak:
			sb.WriteString("<w:r><w:br/></w:r>")
		case edtypes.Image:
			if v.Alt != "" {
				writeRun(sb, edtypes.Text{Content: "[" + v.Alt + "]", Italic: true})
			}
		}
	}
	sb.WriteString("</w:p>")
}

func writeParaProps(sb *strings.Builder, props paraProps) {
	if props.style == "" && props.numID == "" && props.align == edtypes.LeftAlign {
		return
	}
	sb.WriteString("<w:pPr>")
	if props.style != "" {
		fmt.Fprintf(sb, `<w:pStyle w:val="%s"/>`, props.style)
	}
	if props.numID != "" {
		fmt.Fprintf(sb, `<w:numPr><w:ilvl w:val="0"/><w:numId w:val="%s"/></w:numPr>`, props.numID)
	}
	switch props.align {
	case edtypes.CenterAlign:
		sb.WriteString(`<w:jc w:val="center"/>`)
	case edtypes.RightAlign:
		sb.WriteString(`<w:jc w:val="right"/>`)
	}
	sb.WriteString("</w:pPr>")
}

func writeRun(sb *strings.Builder, t edtypes.Text) {
	sb.WriteString("<w:r>")
	if t.Strong || t.Italic || t.Underlined || t.Strikethrough {
		sb.WriteString("<w:rPr>")
		if t.Strong {
			sb.WriteString("<w:b/>")
		}
		if t.Italic {
			sb.WriteString("<w:i/>")
		}
		if t.Underlined {
			sb.WriteString(`<w:u w:val="single"/>`)
		}
		if t.Strikethrough {
			sb.WriteString("<w:strike/>")
		}
		sb.WriteString("</w:rPr>")
	}
	sb.WriteString(`<w:t xml:space="preserve">`)
	xml.EscapeText(sb, []byte(t.Content))
	sb.WriteString("</w:t></w:r>")
}

func writeList(sb *strings.Builder, list edtypes.List) {
	numID := numIDBullet
	if list.Numbered {
		numID = numIDNumbered
	}
	for _, item := range list.Elements {
		for _, para := range item.Content {
			writeParagraph(sb, para, paraProps{numID: numID, align: para.Align})
		}
	}
}

func writeCode(sb *strings.Builder, code edtypes.Code) {
	sb.WriteString("<w:p><w:pPr>")
	fmt.Fprintf(sb, `<w:pStyle w:val="%s"/>`, styleCodeBlock)
	sb.WriteString("</w:pPr>")
	for i, line := range strings.Split(code.Content, "\n") {
		if i > 0 {
			sb.WriteString("<w:r><w:br/></w:r>")
		}
		sb.WriteString(`<w:r><w:t xml:space="preserve">`)
		xml.EscapeText(sb, []byte(line))
		sb.WriteString("</w:t></w:r>")
	}
	sb.WriteString("</w:p>")
}
