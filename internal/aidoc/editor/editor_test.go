package editor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/placeholder"
)

const sampleMarkup = `<p>Hello <strong>bold</strong> and <em>italic</em> with <a href="https://aisa.ru">link</a></p>` +
	`<p style="text-align: center">centered<br>second line</p>` +
	`<ol><li><p>first</p></li><li><p>second</p></li></ol>` +
	`<blockquote><p>quoted</p></blockquote>` +
	`<pre><code class="language-go">package main</code></pre>`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleMarkup))
	if err != nil {
		t.Fatal(err)
	}

	if len(doc.Elements) != 5 {
		t.Fatalf("expected 5 elements, got %d", len(doc.Elements))
	}

	p, ok := doc.Elements[0].(Paragraph)
	if !ok {
		t.Fatalf("expected Paragraph, got %T", doc.Elements[0])
	}
	var bold, italic, linked bool
	for _, inline := range p.Content {
		text, ok := inline.(Text)
		if !ok {
			continue
		}
		bold = bold || text.Strong
		italic = italic || text.Italic
		linked = linked || text.URL != nil
	}
	if !bold || !italic || !linked {
		t.Errorf("lost inline marks: bold=%v italic=%v linked=%v", bold, italic, linked)
	}

	centered, ok := doc.Elements[1].(Paragraph)
	if !ok || centered.Align != CenterAlign {
		t.Errorf("expected centered paragraph, got %#v", doc.Elements[1])
	}

	list, ok := doc.Elements[2].(List)
	if !ok || !list.Numbered || len(list.Elements) != 2 {
		t.Errorf("expected numbered list with 2 items, got %#v", doc.Elements[2])
	}

	if _, ok := doc.Elements[3].(Quote); !ok {
		t.Errorf("expected Quote, got %T", doc.Elements[3])
	}

	code, ok := doc.Elements[4].(Code)
	if !ok || code.Language != "go" || code.Content != "package main" {
		t.Errorf("expected go code block, got %#v", doc.Elements[4])
	}
}

// Рендер распарсенного документа должен давать разметку, эквивалентную исходной
// после повторного парсинга.
func TestRenderRoundtrip(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleMarkup))
	if err != nil {
		t.Fatal(err)
	}

	rendered := RenderHTML(doc)

	again, err := ParseDocument(strings.NewReader(rendered))
	if err != nil {
		t.Fatal(err)
	}

	if len(again.Elements) != len(doc.Elements) {
		t.Fatalf("roundtrip changed element count: %d != %d", len(again.Elements), len(doc.Elements))
	}
	for i := range doc.Elements {
		if want, got := typeName(doc.Elements[i]), typeName(again.Elements[i]); want != got {
			t.Errorf("element %d: %s != %s", i, got, want)
		}
	}
}

// Черновик, у которого сохранена только разметка, должен давать дерево,
// пригодное для сканирования плейсхолдеров.
func TestTipTapFromMarkup(t *testing.T) {
	markup := `<p>Уважаемый(ая) <span class="placeholder-mark">{{client_name|Имя клиента}}</span>!</p>` +
		`<p>Сумма по счёту [amount] должна быть оплачена до {{due_date}}.</p>`

	tree, raw, err := TipTapFromMarkup(markup)
	if err != nil {
		t.Fatal(err)
	}
	if tree == nil {
		t.Fatal("expected tiptap tree")
	}
	if !json.Valid(raw) {
		t.Error("serialized tree is not valid JSON")
	}

	index := placeholder.Scan(tree)
	if len(index) != 3 {
		t.Fatalf("scanned %d placeholders, want 3: %+v", len(index), index)
	}
	want := []string{"{{client_name|Имя клиента}}", "[amount]", "{{due_date}}"}
	for i, rec := range index {
		if rec.Text != want[i] {
			t.Errorf("record %d text = %q, want %q", i, rec.Text, want[i])
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case Paragraph:
		return "paragraph"
	case List:
		return "list"
	case Quote:
		return "quote"
	case Code:
		return "code"
	default:
		return "unknown"
	}
}
