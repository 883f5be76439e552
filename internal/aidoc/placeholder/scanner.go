package placeholder

import (
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// Scan обходит текстовые ноды документа в порядке следования и строит индекс
// плейсхолдеров. Для каждого непустого совпадения абсолютная позиция вычисляется
// как базовое смещение ноды плюс локальное смещение совпадения. Результат
// детерминирован: два сканирования неизменного документа дают идентичные индексы.
func Scan(doc *tiptap.TipTapDocument) Index {
	records := make(Index, 0)

	if doc == nil {
		return records
	}

	tiptap.DescendText(doc, func(text string, base int) {
		for tok := range Match(text) {
			if IsEmpty(tok.Raw) {
				continue
			}

			from := base + tok.Offset
			records = append(records, Record{
				Text:  tok.Raw,
				Label: DeriveLabel(tok.Raw),
				From:  from,
				To:    from + tok.Length,
			})
		}
	})

	return records
}
