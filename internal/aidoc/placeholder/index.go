package placeholder

// Record - одна запись индекса плейсхолдеров. Хранит снимок смещений,
// действительный до следующего изменения документа.
type Record struct {
	// Text - точный текст маркера вместе с разделителями
	Text string `json:"text"`
	// Label - выведенная метка (см. DeriveLabel)
	Label string `json:"label"`
	// From - абсолютная позиция первого символа маркера в документе
	From int `json:"from"`
	// To - позиция за последним символом маркера (полуинтервал [From, To))
	To int `json:"to"`
}

// Index - упорядоченный по возрастанию From список записей. Полностью
// заменяется при каждом сканировании.
type Index []Record

// Changed сравнивает два индекса. Индексы различаются, если не совпадает
// количество записей либо любая пара записей на одной позиции отличается
// по Text, From или To. Label выводится из Text и отдельно не сравнивается.
func Changed(prev, next Index) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if prev[i].Text != next[i].Text || prev[i].From != next[i].From || prev[i].To != next[i].To {
			return true
		}
	}
	return false
}
