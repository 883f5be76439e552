package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportBytes(t *testing.T, doc *edtypes.Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Export(doc, &buf))
	return buf.Bytes()
}

func TestExportPackageStructure(t *testing.T) {
	data := exportBytes(t, &edtypes.Document{Elements: []any{
		edtypes.Paragraph{Content: []any{edtypes.Text{Content: "hello"}}},
	}})

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/styles.xml", "word/numbering.xml"} {
		assert.True(t, names[want], "missing package part %s", want)
	}
}

func TestRoundtrip(t *testing.T) {
	src := &edtypes.Document{Elements: []any{
		edtypes.Paragraph{Content: []any{
			edtypes.Text{Content: "Dear "},
			edtypes.Text{Content: "{{client_name}}", Strong: true},
			edtypes.Text{Content: ", your invoice of [amount] is due."},
		}},
		edtypes.Paragraph{
			Content: []any{edtypes.Text{Content: "centered", Italic: true}},
			Align:   edtypes.CenterAlign,
		},
		edtypes.List{
			Numbered: true,
			Elements: []edtypes.ListElement{
				{Content: []edtypes.Paragraph{{Content: []any{edtypes.Text{Content: "first"}}}}},
				{Content: []edtypes.Paragraph{{Content: []any{edtypes.Text{Content: "second"}}}}},
			},
		},
		edtypes.Quote{Content: []edtypes.Paragraph{
			{Content: []any{edtypes.Text{Content: "quoted line"}}},
		}},
		edtypes.Code{Content: "package main\nfunc main() {}"},
	}}

	doc, err := Import(exportBytes(t, src))
	require.NoError(t, err)
	require.Len(t, doc.Elements, 5)

	para, ok := doc.Elements[0].(edtypes.Paragraph)
	require.True(t, ok, "element 0: %T", doc.Elements[0])
	assert.Equal(t, "Dear {{client_name}}, your invoice of [amount] is due.", paragraphText(para))
	strong, ok := para.Content[1].(edtypes.Text)
	require.True(t, ok)
	assert.True(t, strong.Strong)
	assert.Equal(t, "{{client_name}}", strong.Content)

	centered, ok := doc.Elements[1].(edtypes.Paragraph)
	require.True(t, ok)
	assert.Equal(t, edtypes.CenterAlign, centered.Align)

	list, ok := doc.Elements[2].(edtypes.List)
	require.True(t, ok, "element 2: %T", doc.Elements[2])
	assert.True(t, list.Numbered)
	require.Len(t, list.Elements, 2)
	assert.Equal(t, "second", paragraphText(list.Elements[1].Content[0]))

	quote, ok := doc.Elements[3].(edtypes.Quote)
	require.True(t, ok, "element 3: %T", doc.Elements[3])
	require.Len(t, quote.Content, 1)
	assert.Equal(t, "quoted line", paragraphText(quote.Content[0]))

	code, ok := doc.Elements[4].(edtypes.Code)
	require.True(t, ok, "element 4: %T", doc.Elements[4])
	assert.Equal(t, "package main\nfunc main() {}", code.Content)
}

func TestImportEscapedText(t *testing.T) {
	src := &edtypes.Document{Elements: []any{
		edtypes.Paragraph{Content: []any{edtypes.Text{Content: `a < b & "c"`}}},
	}}

	doc, err := Import(exportBytes(t, src))
	require.NoError(t, err)
	require.Len(t, doc.Elements, 1)
	assert.Equal(t, `a < b & "c"`, paragraphText(doc.Elements[0].(edtypes.Paragraph)))
}

func TestImportNotZip(t *testing.T) {
	_, err := Import([]byte("plain text, not a zip archive"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "open docx"))
}

func TestImportMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte("<doc/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Import(buf.Bytes())
	assert.EqualError(t, err, "word/document.xml not found")
}
