package session

import "github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"

// Selection - полуоткрытый диапазон выделения [From, To) в плоских позициях
// документа.
type Selection struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Navigate переводит выделение сессии на плейсхолдер с порядковым номером n
// из текущего индекса и возвращает получившееся выделение.
//
// Номер за границами индекса прижимается к ближайшему краю; диапазон записи
// прижимается к текущему размеру документа, если тот успел измениться после
// сканирования. При пустом индексе выделение не меняется.
func (s *Session) Navigate(n int) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.selection, apierrors.ErrSessionClosed
	}
	if len(s.index) == 0 {
		return s.selection, apierrors.ErrPlaceholderNotFound
	}

	if n < 0 {
		n = 0
	}
	if n >= len(s.index) {
		n = len(s.index) - 1
	}
	rec := s.index[n]

	from, to := rec.From, rec.To
	if s.doc != nil {
		if size := s.doc.ContentSize(); size >= 0 {
			if from > size {
				from = size
			}
			if to > size {
				to = size
			}
		}
	}
	if to < from {
		to = from
	}

	s.selection = Selection{From: from, To: to}
	return s.selection, nil
}

// Selection возвращает текущее выделение сессии.
func (s *Session) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}
