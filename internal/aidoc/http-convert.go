package aidoc

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/docx"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edtypes"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/export"
	filestorage "github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/file-storage"
	policy "github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/redactor-policy"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/session"
	errStack "github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/stack-error"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/types"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/utils"
	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var htmlMinifier *minify.M

func init() {
	htmlMinifier = minify.New()
	htmlMinifier.AddFunc("text/html", mhtml.Minify)
}

type exportRequest struct {
	DraftID  string `json:"draft_id"`
	Markup   string `json:"markup"`
	Title    string `json:"title" validate:"draftTitle"`
	Filename string `json:"filename" validate:"exportFilename"`
}

func (s *Services) AddConvertServices(g *echo.Group) {
	g.POST("import/", s.importDocx)
	g.POST("export/docx/", s.exportDocx)
	g.POST("export/pdf/", s.exportPdf)
	g.GET("artifacts/:artifactId/", s.getArtifact)
}

// importDocx godoc
// @id importDocx
// @Summary Конвертация: импорт DOCX
// @Description Принимает DOCX файл, конвертирует его в разметку и открывает новую сессию редактора. Документ сканируется на плейсхолдеры сразу после импорта.
// @Tags Convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "DOCX файл"
// @Success 201 {object} sessionResponse "Созданная сессия"
// @Failure 400 {object} apierrors.DefinedError "Неподдерживаемый тип файла"
// @Failure 422 {object} apierrors.DefinedError "Не удалось разобрать файл"
// @Router /api/import/ [post]
func (s *Services) importDocx(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return EErrorDefined(c, apierrors.ErrImportFileRequired)
	}
	if !utils.CheckInSlice([]string{".docx"}, strings.ToLower(filepath.Ext(fileHeader.Filename))) {
		return EErrorDefined(c, apierrors.ErrUnsupportedFileType)
	}
	if fileHeader.Size > int64(cfg.ImportMaxSizeMB)<<20 {
		return EErrorDefined(c, apierrors.ErrEntityToLarge.WithFormattedMessage(cfg.ImportMaxSizeMB))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return EError(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return EError(c, err)
	}

	doc, err := docx.Import(data)
	if err != nil {
		return EErrorDefined(c, apierrors.ErrDocxParseFailed.WithFormattedMessage(err.Error()))
	}

	markup := editor.RenderHTML(doc)
	if minified, err := htmlMinifier.String("text/html", markup); err == nil {
		markup = minified
	} else {
		slog.Warn("Minify imported markup", "err", err)
	}
	markup = policy.UgcPolicy.Sanitize(markup)

	contentJSON, err := tiptap.Serialize(doc)
	if err != nil {
		return EErrorDefined(c, apierrors.ErrDocxParseFailed.WithFormattedMessage(err.Error()))
	}
	tiptapDoc, err := tiptap.ParseDocument(contentJSON)
	if err != nil {
		return EErrorDefined(c, apierrors.ErrDocxParseFailed.WithFormattedMessage(err.Error()))
	}

	title := strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename))

	// Импортированный контент сохраняется сразу, не дожидаясь первого изменения
	draft := dao.Draft{
		ID:          dao.GenUUID(),
		Title:       title,
		Content:     types.RedactorHTML{Body: markup, AlreadySanitized: true},
		ContentJSON: types.JSONB(contentJSON),
	}
	if err := s.drafts.Save(&draft); err != nil {
		return EError(c, err)
	}

	sess := session.New(dao.GenUUID(), uuid.NullUUID{UUID: draft.ID, Valid: true}, cfg.AutosaveQuiet(), s.draftPersister(draft.ID, title))
	sess.Init(tiptapDoc, markup)
	s.sessions.Add(sess)

	return c.JSON(http.StatusCreated, s.sessionToResponse(sess))
}

// exportDocx godoc
// @id exportDocx
// @Summary Конвертация: экспорт в DOCX
// @Description Формирует DOCX из черновика либо переданной разметки и отдаёт файл.
// @Tags Convert
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param data body exportRequest true "Источник экспорта"
// @Success 200 {file} file "DOCX файл"
// @Failure 404 {object} apierrors.DefinedError "Черновик не найден"
// @Failure 422 {object} apierrors.DefinedError "Не удалось сформировать файл"
// @Router /api/export/docx/ [post]
func (s *Services) exportDocx(c echo.Context) error {
	doc, filename, draftID, errResp := s.exportSource(c, ".docx")
	if errResp != nil {
		return errResp
	}

	var buf bytes.Buffer
	if err := docx.Export(doc, &buf); err != nil {
		return EErrorDefined(c, apierrors.ErrDocxGenerateFailed.WithFormattedMessage(err.Error()))
	}

	if artifactID := s.storeArtifact(c, buf.Bytes(), docxContentType, "docx", filename, draftID); artifactID != uuid.Nil {
		c.Response().Header().Set("X-Artifact-Id", artifactID.String())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, docxContentType, buf.Bytes())
}

// exportPdf godoc
// @id exportPdf
// @Summary Конвертация: экспорт в PDF
// @Description Формирует PDF из черновика либо переданной разметки и отдаёт файл.
// @Tags Convert
// @Accept json
// @Produce application/pdf
// @Param data body exportRequest true "Источник экспорта"
// @Success 200 {file} file "PDF файл"
// @Failure 404 {object} apierrors.DefinedError "Черновик не найден"
// @Failure 422 {object} apierrors.DefinedError "Не удалось сформировать файл"
// @Router /api/export/pdf/ [post]
func (s *Services) exportPdf(c echo.Context) error {
	doc, filename, draftID, errResp := s.exportSource(c, ".pdf")
	if errResp != nil {
		return errResp
	}

	var buf bytes.Buffer
	if err := export.DocumentToFPDF(strings.TrimSuffix(filename, ".pdf"), doc, &buf); err != nil {
		return EErrorDefined(c, apierrors.ErrPdfGenerateFailed.WithFormattedMessage(err.Error()))
	}

	if artifactID := s.storeArtifact(c, buf.Bytes(), "application/pdf", "pdf", filename, draftID); artifactID != uuid.Nil {
		c.Response().Header().Set("X-Artifact-Id", artifactID.String())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

// getArtifact godoc
// @id getArtifact
// @Summary Конвертация: получение артефакта экспорта
// @Description Отдаёт ранее сформированный файл экспорта из файлового хранилища.
// @Tags Convert
// @Produce */*
// @Param artifactId path string true "ID артефакта"
// @Success 200 "Содержимое файла"
// @Failure 404 {object} apierrors.DefinedError "Артефакт не найден"
// @Router /api/artifacts/{artifactId}/ [get]
func (s *Services) getArtifact(c echo.Context) error {
	artifactID, err := uuid.FromString(c.Param("artifactId"))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrArtifactNotFound)
	}

	artifact, err := s.artifacts.Get(artifactID)
	if err != nil {
		return EError(c, err)
	}

	// Запись могла пережить файл (например, хранилище очищено вручную)
	exist, err := s.storage.Exist(artifact.ID)
	if err != nil {
		return EError(c, err)
	}
	if !exist {
		return EErrorDefined(c, apierrors.ErrArtifactNotFound)
	}

	stats, err := s.storage.GetFileInfo(artifact.ID)
	if err != nil {
		return EError(c, err)
	}

	r, err := s.storage.LoadReader(artifact.ID)
	if err != nil {
		return EError(c, err)
	}
	defer r.Close()

	c.Response().Header().Set("Content-Length", fmt.Sprint(stats.Size))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, artifact.Filename))
	return c.Stream(http.StatusOK, artifact.ContentType, r)
}

// exportSource разбирает запрос экспорта и возвращает документ внутренней
// модели (из черновика по draft_id либо из переданной разметки) вместе с
// итоговым именем файла и ссылкой на черновик.
func (s *Services) exportSource(c echo.Context, ext string) (*edtypes.Document, string, uuid.NullUUID, error) {
	var req exportRequest
	var draftRef uuid.NullUUID
	if err := c.Bind(&req); err != nil {
		return nil, "", draftRef, EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return nil, "", draftRef, EErrorMsg(c, err)
	}

	markup := req.Markup
	title := req.Title

	if req.DraftID != "" {
		id, err := uuid.FromString(req.DraftID)
		if err != nil {
			return nil, "", draftRef, EErrorDefined(c, apierrors.ErrDraftNotFound)
		}
		draft, err := s.drafts.Get(id)
		if err != nil {
			return nil, "", draftRef, EError(c, err)
		}
		draftRef = uuid.NullUUID{UUID: draft.ID, Valid: true}
		markup = draft.Content.Body
		if title == "" {
			title = draft.Title
		}
	}
	if strings.TrimSpace(markup) == "" {
		return nil, "", draftRef, EErrorDefined(c, apierrors.ErrDraftContentEmpty)
	}

	doc, err := editor.ParseDocument(strings.NewReader(markup))
	if err != nil {
		return nil, "", draftRef, EErrorMsg(c, err)
	}
	return doc, exportFilename(req, title, ext), draftRef, nil
}

// Копия артефакта уходит в файловое хранилище вместе с учётной записью в базе,
// ошибка не прерывает экспорт. Возвращает ID артефакта либо uuid.Nil.
func (s *Services) storeArtifact(c echo.Context, data []byte, contentType, kind, filename string, draftID uuid.NullUUID) uuid.UUID {
	artifact := dao.ExportArtifact{
		ID:          dao.GenUUID(),
		DraftID:     draftID,
		Filename:    filename,
		ContentType: contentType,
		Kind:        kind,
	}

	meta := filestorage.Metadata{Kind: kind}
	if draftID.Valid {
		meta.DraftID = draftID.UUID.String()
	}
	if err := s.storage.Save(data, artifact.ID, contentType, &meta); err != nil {
		errStack.GetError(c, err)
		return uuid.Nil
	}
	if err := s.artifacts.Create(&artifact); err != nil {
		errStack.GetError(c, err)
		return uuid.Nil
	}
	return artifact.ID
}

func exportFilename(req exportRequest, title, ext string) string {
	if req.Filename != "" {
		if !strings.HasSuffix(req.Filename, ext) {
			return req.Filename + ext
		}
		return req.Filename
	}
	if title != "" {
		return title + ext
	}
	return "document" + ext
}
