package aidoc

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dto"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/export"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/utils"
	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
)

type DraftContext struct {
	echo.Context
	Draft dao.Draft
}

func (s *Services) DraftMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		draftID, err := uuid.FromString(c.Param("draftId"))
		if err != nil {
			return EErrorDefined(c, apierrors.ErrDraftNotFound)
		}

		draft, err := s.drafts.Get(draftID)
		if err != nil {
			return EError(c, err)
		}
		return next(DraftContext{c, *draft})
	}
}

func (s *Services) AddDraftServices(g *echo.Group) {
	g.GET("drafts/", s.getDraftList)

	draftGroup := g.Group("drafts/:draftId", s.DraftMiddleware)
	draftGroup.GET("/", s.getDraft)
	draftGroup.DELETE("/", s.deleteDraft)
	draftGroup.GET("/export/pdf/", s.exportDraftPdf)
}

// getDraftList godoc
// @id getDraftList
// @Summary Черновики: список черновиков
// @Description Возвращает черновики, отсортированные от недавно изменённых к старым.
// @Tags Draft
// @Produce json
// @Success 200 {array} dto.DraftLight "Список черновиков"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Router /api/drafts/ [get]
func (s *Services) getDraftList(c echo.Context) error {
	drafts, err := s.drafts.List()
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, utils.SliceToSlice(&drafts, func(d *dao.Draft) dto.DraftLight {
		return *d.ToLightDTO()
	}))
}

// getDraft godoc
// @id getDraft
// @Summary Черновики: получение черновика
// @Description Возвращает черновик с контентом и его TipTap представлением.
// @Tags Draft
// @Produce json
// @Param draftId path string true "ID черновика"
// @Success 200 {object} dto.Draft "Черновик"
// @Failure 404 {object} apierrors.DefinedError "Черновик не найден"
// @Router /api/drafts/{draftId}/ [get]
func (s *Services) getDraft(c echo.Context) error {
	draft := c.(DraftContext).Draft
	return c.JSON(http.StatusOK, draft.ToDTO())
}

// deleteDraft godoc
// @id deleteDraft
// @Summary Черновики: удаление черновика
// @Description Удаляет черновик. Открытые сессии этого черновика продолжают жить до закрытия.
// @Tags Draft
// @Param draftId path string true "ID черновика"
// @Success 204 "Черновик удалён"
// @Failure 404 {object} apierrors.DefinedError "Черновик не найден"
// @Router /api/drafts/{draftId}/ [delete]
func (s *Services) deleteDraft(c echo.Context) error {
	draft := c.(DraftContext).Draft
	if err := s.drafts.Delete(draft.ID); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// exportDraftPdf godoc
// @id exportDraftPdf
// @Summary Черновики: экспорт черновика в PDF
// @Description Формирует PDF напрямую из сохранённого черновика, без тела запроса.
// @Tags Draft
// @Produce application/pdf
// @Param draftId path string true "ID черновика"
// @Success 200 {file} file "PDF файл"
// @Failure 404 {object} apierrors.DefinedError "Черновик не найден"
// @Failure 422 {object} apierrors.DefinedError "Не удалось сформировать файл"
// @Router /api/drafts/{draftId}/export/pdf/ [get]
func (s *Services) exportDraftPdf(c echo.Context) error {
	draft := c.(DraftContext).Draft

	var buf bytes.Buffer
	if err := export.DraftToFPDF(&draft, &buf); err != nil {
		return EErrorDefined(c, apierrors.ErrPdfGenerateFailed.WithFormattedMessage(err.Error()))
	}

	filename := "document.pdf"
	if draft.Title != "" {
		filename = draft.Title + ".pdf"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
