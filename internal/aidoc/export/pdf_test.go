package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/types"
)

func TestDraftToFPDF(t *testing.T) {
	draft := dao.Draft{
		ID:        dao.GenUUID(),
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now(),
		Title:     "Invoice template",
		Content: types.RedactorHTML{
			Body:             `<p>Dear <strong>{{client_name}}</strong>, your invoice of [amount] is due.</p><ul><li><p>item one</p></li><li><p>item two</p></li></ul><blockquote><p>quoted</p></blockquote><pre><code>total = amount</code></pre>`,
			AlreadySanitized: true,
		},
	}

	var buf bytes.Buffer
	if err := DraftToFPDF(&draft, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty pdf output")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not look like a pdf: %q", buf.Bytes()[:8])
	}
}

func TestDocumentToFPDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := DocumentToFPDF("", nil, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty pdf output")
	}
}
