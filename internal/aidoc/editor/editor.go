// Пакет предоставляет инструменты для парсинга HTML-разметки редактора и извлечения структуры документа.
// Он предназначен для работы с элементами, которые поддерживает редактор: параграфы, списки, цитаты,
// блоки кода, изображения и переносы строк.
//
// Основные возможности:
//   - Парсинг HTML-документов из io.Reader.
//   - Извлечение текста, форматирования и ссылок из HTML-элементов.
//   - Предоставление удобных типов данных для представления элементов документа.
package editor

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

func ParseDocument(r io.Reader) (*Document, error) {
	rootNode, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var document Document

	for el := getBody(rootNode).FirstChild; el != nil; el = el.NextSibling {
		if el.Type != html.ElementNode {
			continue
		}

		switch el.Data {
		case "pre":
			document.Elements = append(document.Elements, parseCode(el))
		case "p":
			p := parseParagraph(el)
			if p != nil {
				document.Elements = append(document.Elements, *p)
			}
		case "ul", "ol":
			list := parseList(el)
			if list != nil {
				document.Elements = append(document.Elements, *list)
			}
		case "blockquote":
			var quote Quote
			iterNodes(el, func(child *html.Node) bool {
				if p := parseParagraph(child); p != nil {
					quote.Content = append(quote.Content, *p)
					return true
				}
				return false
			})
			document.Elements = append(document.Elements, quote)
		}
	}

	return &document, nil
}

func parseParagraph(el *html.Node) *Paragraph {
	if el.Type != html.ElementNode || el.Data != "p" {
		return nil
	}

	var p Paragraph

	for _, style := range parseStyles(strings.Split(getAttrValue("style", el.Attr), ";")) {
		if style.Key == "text-align" {
			p.Align = toTextAlign(style.Val)
		}
	}

	for child := el.FirstChild; child != nil; child = child.NextSibling {
		switch {
		case child.Type == html.TextNode:
			p.Content = append(p.Content, Text{Content: child.Data})
		case child.Type != html.ElementNode:
			continue
		case child.Data == "br":
			p.Content = append(p.Content, HardBreak{})
		case child.Data == "img":
			if img := getImage(child); img != nil {
				p.Content = append(p.Content, *img)
			}
		default:
			p.Content = append(p.Content, getText(child))
		}
	}

	return &p
}

func parseList(el *html.Node) *List {
	if el.Type != html.ElementNode {
		return nil
	}

	var list List

	switch el.Data {
	case "ol":
		list.Numbered = true
	case "ul":
		list.TaskList = attrExists("data-type", el.Attr) && getAttrValue("data-type", el.Attr) == "taskList"
	default:
		return nil
	}

	for li := el.FirstChild; li != nil; li = li.NextSibling {
		if elem := parseListElement(li); elem != nil {
			list.Elements = append(list.Elements, *elem)
		}
	}

	if len(list.Elements) == 0 {
		return nil
	}

	return &list
}

func parseListElement(li *html.Node) *ListElement {
	if li.Type != html.ElementNode || li.Data != "li" {
		return nil
	}

	var listElement ListElement

	listElement.Checked = getAttrValue("data-checked", li.Attr) == "true"

	iterNodes(li, func(p *html.Node) bool {
		paragraph := parseParagraph(p)
		if paragraph != nil {
			listElement.Content = append(listElement.Content, *paragraph)
			return true
		}
		return false
	})
	return &listElement
}

func parseCode(root *html.Node) Code {
	var code Code

	if codeEl := findElementByTagName(root, "code"); codeEl != nil {
		code.Language = strings.TrimPrefix(getAttrValue("class", codeEl.Attr), "language-")
	}

	iterNodes(root, func(child *html.Node) bool {
		if child.Type != html.TextNode {
			return false
		}
		code.Content += child.Data
		return false
	})
	return code
}

func getText(root *html.Node) Text {
	var text Text

	iterNodes(root, func(el *html.Node) bool {
		if el.Type == html.TextNode {
			text.Content = el.Data
			return true
		}
		switch el.Data {
		case "em", "i":
			text.Italic = true
		case "u":
			text.Underlined = true
		case "s":
			text.Strikethrough = true
		case "strong", "b":
			text.Strong = true
		case "code":
			text.Code = true
		case "a":
			if u, err := url.Parse(getAttrValue("href", el.Attr)); err == nil {
				text.URL = u
			}
		}

		return false
	})

	return text
}

func getImage(el *html.Node) *Image {
	if el.Type != html.ElementNode || el.Data != "img" {
		return nil
	}

	imgUrl, err := url.Parse(getAttrValue("src", el.Attr))
	if err != nil {
		return nil
	}

	return &Image{
		Src: imgUrl,
		Alt: getAttrValue("alt", el.Attr),
	}
}

func findElementByTagName(rootNode *html.Node, tagName string) *html.Node {
	var el *html.Node
	iterNodes(rootNode, func(child *html.Node) bool {
		if child.Type == html.ElementNode && child.Data == tagName {
			el = child
			return true
		}
		return false
	})
	return el
}

func getBody(rootNode *html.Node) *html.Node {
	return findElementByTagName(rootNode, "body")
}

func iterNodes(node *html.Node, f func(child *html.Node) bool) {
	if f(node) {
		return
	}
	for p := node.FirstChild; p != nil; p = p.NextSibling {
		iterNodes(p, f)
	}
}

func getAttrValue(key string, attrs []html.Attribute) string {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func attrExists(key string, attrs []html.Attribute) bool {
	for _, attr := range attrs {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func toTextAlign(raw string) TextAlign {
	switch strings.TrimSpace(raw) {
	case "left":
		return LeftAlign
	case "center":
		return CenterAlign
	case "right":
		return RightAlign
	}
	return LeftAlign
}

func parseStyles(rawStyles []string) []html.Attribute {
	res := make([]html.Attribute, len(rawStyles))
	for i, styleRaw := range rawStyles {
		arr := strings.Split(styleRaw, ":")
		if len(arr) < 2 {
			continue
		}
		res[i] = html.Attribute{
			Key: strings.TrimSpace(arr[0]),
			Val: strings.TrimSpace(arr[1]),
		}
	}
	return res
}
