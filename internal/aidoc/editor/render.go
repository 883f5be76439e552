package editor

import (
	"fmt"
	"html"
	"strings"
)

// RenderHTML сериализует документ обратно в HTML-разметку редактора.
// Обратная операция к ParseDocument: сохраняет параграфы, списки, цитаты,
// блоки кода, форматирование текста и ссылки.
func RenderHTML(doc *Document) string {
	var b strings.Builder

	for _, elem := range doc.Elements {
		renderElement(&b, elem)
	}

	return b.String()
}

func renderElement(b *strings.Builder, elem any) {
	switch e := elem.(type) {
	case Paragraph:
		renderParagraph(b, &e)
	case *Paragraph:
		renderParagraph(b, e)
	case List:
		renderList(b, &e)
	case *List:
		renderList(b, e)
	case Quote:
		b.WriteString("<blockquote>")
		for _, p := range e.Content {
			renderParagraph(b, &p)
		}
		b.WriteString("</blockquote>")
	case Code:
		b.WriteString("<pre><code")
		if e.Language != "" {
			fmt.Fprintf(b, ` class="language-%s"`, html.EscapeString(e.Language))
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(e.Content))
		b.WriteString("</code></pre>")
	}
}

func renderParagraph(b *strings.Builder, p *Paragraph) {
	if p.Align != LeftAlign {
		fmt.Fprintf(b, `<p style="text-align: %s">`, alignName(p.Align))
	} else {
		b.WriteString("<p>")
	}

	for _, inline := range p.Content {
		renderInline(b, inline)
	}

	b.WriteString("</p>")
}

func alignName(a TextAlign) string {
	switch a {
	case CenterAlign:
		return "center"
	case RightAlign:
		return "right"
	}
	return "left"
}

func renderInline(b *strings.Builder, inline any) {
	switch t := inline.(type) {
	case Text:
		renderText(b, &t)
	case *Text:
		renderText(b, t)
	case HardBreak, *HardBreak:
		b.WriteString("<br>")
	case Image:
		renderImage(b, &t)
	case *Image:
		renderImage(b, t)
	}
}

func renderText(b *strings.Builder, t *Text) {
	var open, closing []string

	if t.URL != nil {
		open = append(open, fmt.Sprintf(`<a href="%s">`, html.EscapeString(t.URL.String())))
		closing = append([]string{"</a>"}, closing...)
	}
	if t.Strong {
		open = append(open, "<strong>")
		closing = append([]string{"</strong>"}, closing...)
	}
	if t.Italic {
		open = append(open, "<em>")
		closing = append([]string{"</em>"}, closing...)
	}
	if t.Underlined {
		open = append(open, "<u>")
		closing = append([]string{"</u>"}, closing...)
	}
	if t.Strikethrough {
		open = append(open, "<s>")
		closing = append([]string{"</s>"}, closing...)
	}
	if t.Code {
		open = append(open, "<code>")
		closing = append([]string{"</code>"}, closing...)
	}

	for _, tag := range open {
		b.WriteString(tag)
	}
	b.WriteString(html.EscapeString(t.Content))
	for _, tag := range closing {
		b.WriteString(tag)
	}
}

func renderImage(b *strings.Builder, img *Image) {
	src := ""
	if img.Src != nil {
		src = img.Src.String()
	}
	fmt.Fprintf(b, `<img src="%s" alt="%s">`, html.EscapeString(src), html.EscapeString(img.Alt))
}

func renderList(b *strings.Builder, list *List) {
	tag := "ul"
	if list.Numbered {
		tag = "ol"
	}

	if list.TaskList {
		b.WriteString(`<ul data-type="taskList">`)
	} else {
		fmt.Fprintf(b, "<%s>", tag)
	}

	for _, elem := range list.Elements {
		if list.TaskList {
			fmt.Fprintf(b, `<li data-checked="%t">`, elem.Checked)
		} else {
			b.WriteString("<li>")
		}
		for _, p := range elem.Content {
			renderParagraph(b, &p)
		}
		b.WriteString("</li>")
	}

	fmt.Fprintf(b, "</%s>", tag)
}
