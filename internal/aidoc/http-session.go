package aidoc

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/placeholder"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/session"
	errStack "github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/stack-error"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/types"
	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
)

type SessionContext struct {
	echo.Context
	Session *session.Session
}

type createSessionRequest struct {
	DraftID     string          `json:"draft_id"`
	Title       string          `json:"title" validate:"draftTitle"`
	Markup      string          `json:"markup"`
	ContentJSON json.RawMessage `json:"content_json"`
}

type contentUpdateRequest struct {
	Markup      string          `json:"markup"`
	ContentJSON json.RawMessage `json:"content_json"`
}

type placeholderResponse struct {
	placeholder.Record
	Display string `json:"display"`
}

type sessionResponse struct {
	ID             string                `json:"id"`
	DraftID        *string               `json:"draft_id,omitempty" extensions:"x-nullable"`
	CreatedAt      time.Time             `json:"created_at"`
	LastActivityAt time.Time             `json:"last_activity_at"`
	State          string                `json:"state"`
	SaveError      string                `json:"save_error,omitempty"`
	Selection      session.Selection     `json:"selection"`
	Placeholders   []placeholderResponse `json:"placeholders"`
}

func (s *Services) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID, err := uuid.FromString(c.Param("sessionId"))
		if err != nil {
			return EErrorDefined(c, apierrors.ErrSessionNotFound)
		}

		sess, err := s.sessions.Get(sessionID)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrSessionNotFound)
		}
		return next(SessionContext{c, sess})
	}
}

func (s *Services) AddSessionServices(g *echo.Group) {
	g.POST("sessions/", s.createSession)

	sessionGroup := g.Group("sessions/:sessionId", s.SessionMiddleware)
	sessionGroup.GET("/", s.getSession)
	sessionGroup.DELETE("/", s.deleteSession)
	sessionGroup.PATCH("/content/", s.updateSessionContent)
	sessionGroup.POST("/save/", s.saveSession)
	sessionGroup.GET("/placeholders/", s.getSessionPlaceholders)
	sessionGroup.POST("/placeholders/:n/navigate/", s.navigateSessionPlaceholder)
	sessionGroup.GET("/live/", s.liveSession)
}

// createSession godoc
// @id createSession
// @Summary Сессии: создание сессии редактора
// @Description Открывает сессию из черновика либо с переданным контентом. Сразу после создания документ сканируется на плейсхолдеры.
// @Tags Session
// @Accept json
// @Produce json
// @Param data body createSessionRequest true "Параметры сессии"
// @Success 201 {object} sessionResponse "Созданная сессия"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 404 {object} apierrors.DefinedError "Черновик не найден"
// @Router /api/sessions/ [post]
func (s *Services) createSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrDraftTitleTooLong)
	}

	var doc *tiptap.TipTapDocument
	markup := req.Markup
	title := req.Title
	draftID := dao.GenUUID()

	if req.DraftID != "" {
		id, err := uuid.FromString(req.DraftID)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrDraftNotFound)
		}
		draft, err := s.drafts.Get(id)
		if err != nil {
			return EError(c, err)
		}
		draftID = draft.ID
		markup = draft.Content.Body
		if title == "" {
			title = draft.Title
		}
		if len(draft.ContentJSON) > 0 {
			doc, err = tiptap.ParseDocument(draft.ContentJSON)
			if err != nil {
				return EErrorDefined(c, apierrors.ErrSessionContentInvalid)
			}
		}
	} else if len(req.ContentJSON) > 0 {
		var err error
		doc, err = tiptap.ParseDocument(req.ContentJSON)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrSessionContentInvalid)
		}
	}

	// Черновик только с разметкой: дерево для первичного сканирования
	// восстанавливаем из HTML
	if doc == nil && markup != "" {
		var err error
		doc, _, err = editor.TipTapFromMarkup(markup)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrSessionContentInvalid)
		}
	}

	sess := session.New(dao.GenUUID(), uuid.NullUUID{UUID: draftID, Valid: true}, cfg.AutosaveQuiet(), s.draftPersister(draftID, title))
	sess.Init(doc, markup)
	s.sessions.Add(sess)

	return c.JSON(http.StatusCreated, s.sessionToResponse(sess))
}

// getSession godoc
// @id getSession
// @Summary Сессии: информация о сессии
// @Description Возвращает состояние сессии, выделение и текущий индекс плейсхолдеров.
// @Tags Session
// @Produce json
// @Param sessionId path string true "ID сессии"
// @Success 200 {object} sessionResponse "Сессия"
// @Failure 404 {object} apierrors.DefinedError "Сессия не найдена"
// @Router /api/sessions/{sessionId}/ [get]
func (s *Services) getSession(c echo.Context) error {
	sess := c.(SessionContext).Session
	return c.JSON(http.StatusOK, s.sessionToResponse(sess))
}

// deleteSession godoc
// @id deleteSession
// @Summary Сессии: завершение сессии
// @Description Закрывает сессию редактора. Индекс плейсхолдеров уничтожается вместе с сессией.
// @Tags Session
// @Param sessionId path string true "ID сессии"
// @Success 204 "Сессия завершена"
// @Failure 404 {object} apierrors.DefinedError "Сессия не найдена"
// @Router /api/sessions/{sessionId}/ [delete]
func (s *Services) deleteSession(c echo.Context) error {
	sess := c.(SessionContext).Session
	s.liveService.CloseSessionConns(sess.ID)
	s.sessions.Delete(sess.ID)
	return c.NoContent(http.StatusNoContent)
}

// updateSessionContent godoc
// @id updateSessionContent
// @Summary Сессии: уведомление об изменении контента
// @Description Принимает новое состояние документа. Сохранение и пересканирование откладываются до паузы в редактировании.
// @Tags Session
// @Accept json
// @Param sessionId path string true "ID сессии"
// @Param data body contentUpdateRequest true "Новый контент"
// @Success 202 {object} sessionResponse "Изменение принято"
// @Failure 400 {object} apierrors.DefinedError "Некорректный контент"
// @Failure 404 {object} apierrors.DefinedError "Сессия не найдена"
// @Failure 410 {object} apierrors.DefinedError "Сессия завершена"
// @Router /api/sessions/{sessionId}/content/ [patch]
func (s *Services) updateSessionContent(c echo.Context) error {
	sess := c.(SessionContext).Session

	var req contentUpdateRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}

	var doc *tiptap.TipTapDocument
	if len(req.ContentJSON) > 0 {
		var err error
		doc, err = tiptap.ParseDocument(req.ContentJSON)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrSessionContentInvalid)
		}
	}

	if err := sess.SetContent(doc, req.Markup); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusAccepted, s.sessionToResponse(sess))
}

// saveSession godoc
// @id saveSession
// @Summary Сессии: ручное сохранение
// @Description Сохраняет снимок немедленно в обход таймера автосохранения. Повторный вызов без новых изменений ничего не делает.
// @Tags Session
// @Param sessionId path string true "ID сессии"
// @Success 200 {object} sessionResponse "Снимок сохранён"
// @Failure 404 {object} apierrors.DefinedError "Сессия не найдена"
// @Failure 410 {object} apierrors.DefinedError "Сессия завершена"
// @Failure 503 {object} apierrors.DefinedError "Ошибка сохранения"
// @Router /api/sessions/{sessionId}/save/ [post]
func (s *Services) saveSession(c echo.Context) error {
	sess := c.(SessionContext).Session

	if err := sess.Flush(); err != nil {
		var defined apierrors.DefinedError
		if errors.As(err, &defined) {
			return EErrorDefined(c, defined)
		}
		errStack.GetError(c, err)
		return EErrorDefined(c, apierrors.ErrDraftSaveFailed)
	}
	return c.JSON(http.StatusOK, s.sessionToResponse(sess))
}

// getSessionPlaceholders godoc
// @id getSessionPlaceholders
// @Summary Плейсхолдеры: текущий индекс
// @Description Возвращает упорядоченный список плейсхолдеров документа с позициями и метками.
// @Tags Placeholder
// @Produce json
// @Param sessionId path string true "ID сессии"
// @Success 200 {array} placeholderResponse "Индекс плейсхолдеров"
// @Failure 404 {object} apierrors.DefinedError "Сессия не найдена"
// @Router /api/sessions/{sessionId}/placeholders/ [get]
func (s *Services) getSessionPlaceholders(c echo.Context) error {
	sess := c.(SessionContext).Session
	return c.JSON(http.StatusOK, placeholdersToResponse(sess.Placeholders()))
}

// navigateSessionPlaceholder godoc
// @id navigateSessionPlaceholder
// @Summary Плейсхолдеры: навигация
// @Description Переводит выделение сессии на плейсхолдер с порядковым номером n. Номер за границами индекса прижимается к краю.
// @Tags Placeholder
// @Produce json
// @Param sessionId path string true "ID сессии"
// @Param n path int true "Порядковый номер плейсхолдера"
// @Success 200 {object} session.Selection "Результирующее выделение"
// @Failure 404 {object} apierrors.DefinedError "Сессия или плейсхолдер не найдены"
// @Router /api/sessions/{sessionId}/placeholders/{n}/navigate/ [post]
func (s *Services) navigateSessionPlaceholder(c echo.Context) error {
	sess := c.(SessionContext).Session

	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrPlaceholderNotFound)
	}

	sel, err := sess.Navigate(n)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, sel)
}

// liveSession godoc
// @id liveSession
// @Summary Сессии: живой индекс по вебсокету
// @Description Открывает вебсокет, по которому клиент получает индекс плейсхолдеров после каждого пересканирования.
// @Tags Session
// @Param sessionId path string true "ID сессии"
// @Router /api/sessions/{sessionId}/live/ [get]
func (s *Services) liveSession(c echo.Context) error {
	sess := c.(SessionContext).Session
	s.liveService.Handle(sess, c.Response(), c.Request())
	return nil
}

// draftPersister возвращает функцию сохранения снимков сессии в черновик.
// Черновик создаётся при первом сохранении, если его ещё нет.
func (s *Services) draftPersister(draftID uuid.UUID, title string) session.PersistFunc {
	return func(snap session.Snapshot) error {
		draft, err := s.drafts.Get(draftID)
		if err != nil {
			if !errors.Is(err, apierrors.ErrDraftNotFound) {
				return errStack.TrackErrorStack(err).AddContext("draftId", draftID.String())
			}
			draft = &dao.Draft{ID: draftID, Title: title}
		}

		draft.Content = types.RedactorHTML{Body: snap.Markup}
		if snap.Doc != nil {
			raw, err := json.Marshal(snap.Doc)
			if err != nil {
				return errStack.TrackErrorStack(err).AddContext("draftId", draftID.String())
			}
			draft.ContentJSON = types.JSONB(raw)
		}
		if err := s.drafts.Save(draft); err != nil {
			return errStack.TrackErrorStack(err).AddContext("draftId", draftID.String())
		}
		return nil
	}
}

func (s *Services) sessionToResponse(sess *session.Session) sessionResponse {
	resp := sessionResponse{
		ID:             sess.ID.String(),
		CreatedAt:      sess.CreatedAt(),
		LastActivityAt: sess.LastActivity(),
		State:          sess.SchedulerState().String(),
		SaveError:      sess.SaveError(),
		Selection:      sess.Selection(),
		Placeholders:   placeholdersToResponse(sess.Placeholders()),
	}
	if sess.DraftID.Valid {
		id := sess.DraftID.UUID.String()
		resp.DraftID = &id
	}
	return resp
}

func placeholdersToResponse(index placeholder.Index) []placeholderResponse {
	out := make([]placeholderResponse, len(index))
	for i, rec := range index {
		out[i] = placeholderResponse{Record: rec, Display: placeholder.FormatLabel(rec.Label)}
	}
	return out
}
