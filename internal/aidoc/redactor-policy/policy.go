// Определяет политики безопасности для обработки атрибутов и стилей в контенте редактора.
// Политики применяются к разрешенным элементам DOM и обеспечивают контроль над атрибутами,
// чтобы предотвратить XSS при сохранении и отдаче пользовательской разметки.
//
// Основные возможности:
//   - Разрешение/запрет определенных атрибутов для конкретных элементов.
//   - Ограничение допустимых значений атрибутов с помощью регулярных выражений.
//   - Использование pre-определенных политик bluemonday (StrictPolicy, UGCPolicy).
package policy

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var StripTagsPolicy *bluemonday.Policy = bluemonday.StrictPolicy()
var UgcPolicy *bluemonday.Policy = bluemonday.UGCPolicy()

func init() {
	colorRegexp := regexp.MustCompile(`^(#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|rgb\((\d+),\s*(\d+),\s*(\d+)\)|inherit)$`)
	alignRegexp := regexp.MustCompile(`^(left|center|right)$`)
	classRegexp := regexp.MustCompile(`^(placeholder-mark)$`)
	langClassRegexp := regexp.MustCompile(`^language-[a-zA-Z0-9+#-]*$`)

	UgcPolicy.AllowAttrs("class").Matching(classRegexp).OnElements("span")
	UgcPolicy.AllowAttrs("data-label", "data-placeholder").OnElements("span")

	UgcPolicy.AllowAttrs("spellcheck").OnElements("pre")
	UgcPolicy.AllowAttrs("class").Matching(langClassRegexp).OnElements("code")
	UgcPolicy.AllowAttrs("data-checked").OnElements("li")

	UgcPolicy.AllowStyles("color", "background-color").Matching(colorRegexp).Globally()
	UgcPolicy.AllowStyles("text-align").Matching(alignRegexp).Globally()

	UgcPolicy.RequireNoFollowOnLinks(false)
}
