// Пакет aidoc предоставляет серверные компоненты редактора документов-шаблонов.
// Включает работу с сессиями редактора, индексом плейсхолдеров, черновиками
// и конвертацией документов (DOCX, PDF). Предоставляет HTTP API для фронтенда
// на базе Tiptap.
//
// Основные возможности:
//   - Сессии редактирования с отложенным автосохранением.
//   - Индекс плейсхолдеров документа и навигация по нему.
//   - Импорт DOCX и экспорт в DOCX и PDF.
//   - Живая доставка индекса по вебсокету.
package aidoc

// @title AIDoc API
// @version 1.0
// @description Document template editing backend.
// @BasePath /
// @query.collection.format multi
import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/config"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/cronmanager"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor"
	filestorage "github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/file-storage"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/live"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/session"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/types"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Services struct {
	db          *gorm.DB
	drafts      *dao.DraftStore
	artifacts   *dao.ArtifactStore
	storage     filestorage.FileStorage
	sessions    *session.Store
	liveService *live.LiveIndexService
}

var cfg *config.Config
var appVersion string

// ServerHeader middleware adds a `Server` header to the response.
func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "AIDoc")
		return next(c)
	}
}

func Server(db *gorm.DB, c *config.Config, version string) {
	cfg = c
	appVersion = version

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}

		// Ignore 404
		if code == http.StatusNotFound {
			c.NoContent(http.StatusNotFound)
			return
		}
		slog.Error("Unhandled error in endpoint", "url", c.Request().URL, "err", err)
		EErrorMsgStatus(c, nil, code)
	}

	var storage filestorage.FileStorage
	var err error
	if cfg.AWSEndpoint != "" {
		storage, err = filestorage.NewMinioStorage(cfg.AWSEndpoint, cfg.AWSAccessKey, cfg.AWSSecretKey, false, cfg.AWSBucketName)
		if err != nil {
			slog.Error("Fail init Minio connection", "err", err)
			os.Exit(1)
		}
	} else {
		storage, err = filestorage.NewLocalStorage(cfg.StoragePath)
		if err != nil {
			slog.Error("Fail init local storage", "err", err)
			os.Exit(1)
		}
	}

	s := &Services{
		db:          db,
		drafts:      dao.NewDraftStore(db),
		artifacts:   dao.NewArtifactStore(db),
		storage:     storage,
		sessions:    session.NewStore(cfg.SessionTTL()),
		liveService: live.NewLiveIndexService(),
	}

	if cfg.Demo {
		s.seedDemoDraft()
	}

	cronManager := cronmanager.NewCronManager()
	if err := cronManager.Register("drafts_clean", "0 1 * * *", func() {
		removed, err := s.drafts.PruneOlderThan(time.Now().AddDate(0, 0, -cfg.DraftTTLDays))
		if err != nil {
			slog.Error("Prune stale drafts", "err", err)
			return
		}
		if removed > 0 {
			slog.Info("Stale drafts pruned", "count", removed)
		}
	}); err != nil {
		slog.Error("Failed to register cron jobs", "err", err)
		os.Exit(1)
	}
	if err := cronManager.Register("artifacts_clean", "30 1 * * *", func() {
		ids, err := s.artifacts.PruneOlderThan(time.Now().AddDate(0, 0, -cfg.DraftTTLDays))
		if err != nil {
			slog.Error("Prune export artifacts", "err", err)
			return
		}
		for _, id := range ids {
			if err := s.storage.Delete(id); err != nil {
				slog.Error("Delete artifact file", "artifactId", id, "err", err)
			}
		}
		if len(ids) > 0 {
			slog.Info("Export artifacts pruned", "count", len(ids))
		}
	}); err != nil {
		slog.Error("Failed to register cron jobs", "err", err)
		os.Exit(1)
	}
	cronManager.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down gracefully, press Ctrl+C again to force")
		cronManager.Stop()
		s.sessions.Close()
		os.Exit(0)
	}()

	// Global middlewares
	e.Use(ServerHeader)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{strings.TrimSuffix(cfg.WebURL.String(), "/")},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: fmt.Sprintf("%dM", cfg.ImportMaxSizeMB),
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     9,
		MinLength: 2048,
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Path(), "/live/")
		},
	}))
	e.Use(echoprometheus.NewMiddleware("aidoc"))
	e.Pre(middleware.AddTrailingSlash())

	e.Validator = NewRequestValidator()

	apiGroup := e.Group("/api/")

	s.AddSessionServices(apiGroup)
	s.AddDraftServices(apiGroup)
	s.AddConvertServices(apiGroup)

	// Version endpoint
	apiGroup.GET("version/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"version": version,
			"demo":    cfg.Demo,
		})
	})

	// Health endpoint
	apiGroup.GET("_health/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// Prometheus metrics
	if cfg.MetricsEnable {
		go func() {
			bootTimeGauge := prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "aidoc",
				Name:      "boot_time",
				Help:      "Server startup time",
			})
			bootTimeGauge.Set(float64(time.Now().UnixMilli()))

			if err := prometheus.Register(bootTimeGauge); err != nil {
				slog.Error("Register boot time gauge", "err", err)
				os.Exit(1)
			}

			metrics := echo.New()
			metrics.HideBanner = true
			metrics.GET("/metrics", echoprometheus.NewHandler())
			if err := metrics.Start(":2112"); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server fail", "err", err)
			}
		}()
	}

	if err := e.Start(":8080"); err != nil {
		slog.Error("Server fail", "err", err)
	}
}

// Демо-черновик с примерами плейсхолдеров для пустой инсталляции
func (s *Services) seedDemoDraft() {
	drafts, err := s.drafts.List()
	if err != nil || len(drafts) > 0 {
		return
	}

	body := `<p>Уважаемый(ая) <span class="placeholder-mark">{{client_name|Имя клиента}}</span>!</p><p>Сумма по счёту [amount] должна быть оплачена до {{due_date}}.</p>`

	draft := dao.Draft{
		Title: "Договор (демо)",
		Content: types.RedactorHTML{
			Body:             body,
			AlreadySanitized: true,
		},
	}
	if _, raw, err := editor.TipTapFromMarkup(body); err == nil {
		draft.ContentJSON = types.JSONB(raw)
	}
	if err := s.drafts.Save(&draft); err != nil {
		slog.Error("Seed demo draft", "err", err)
		return
	}
	slog.Info("Demo draft created", "draftId", draft.ID)
}
