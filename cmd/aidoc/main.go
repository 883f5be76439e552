// Основной пакет приложения AIDoc. Отвечает за запуск приложения, инициализацию базы данных, миграцию моделей и запуск основного сервера приложения.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/config"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/gormlogger"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var version string = "DEV"

func main() {
	paramQueries := flag.Bool("paramQueries", true, "Mask queries params in log")
	noMigration := flag.Bool("noMigration", false, "Turn off DB migration")
	trace := flag.Bool("trace", false, "Verbose logs and sql trace")
	flag.Parse()

	PrintBanner()

	cfg := config.ReadConfig()

	if *trace {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Set prod log format
	if version != "DEV" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
	}

	slog.Info("AIDoc start.")

	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.NewGormLogger(slog.Default(), time.Second*4, *paramQueries),
	}

	var db *gorm.DB
	var err error
	if cfg.DatabaseDSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), gormConfig)
	} else {
		// Без DATABASE_URL приложение работает на встроенной sqlite базе
		db, err = gorm.Open(sqlite.Open(cfg.SqlitePath), gormConfig)
	}
	if err != nil {
		slog.Error("Fail init DB connection", "err", err)
		os.Exit(1)
	}

	if cfg.DatabaseDSN != "" {
		sqlDB, err := db.DB()
		if err != nil {
			slog.Error("Fail set settings to conn pool", "err", err)
			os.Exit(1)
		}
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(time.Minute * 15)
	}

	if !*noMigration {
		if err := dao.Migrate(db); err != nil {
			slog.Error("Fail migrate models", "err", err)
			os.Exit(1)
		}
	}

	aidoc.Server(db, cfg, version)
}

// PrintBanner выводит заголовок приложения с версией и ссылкой на сайт.
func PrintBanner() {
	banner := `
          _____ _____
    /\   |_   _|  __ \  ___   ___
   /  \    | | | |  | |/ _ \ / __|
  / /\ \   | | | |  | | (_) | (__
 / ____ \ _| |_| |__| |\___/ \___|
/_/    \_\_____|_____/  %s
Document template editing service
%s
----------------------------------------------------
`
	colorReset := "\033[0m"

	colorYellow := "\033[33m"
	colorBlue := "\033[34m"

	formattedVersion := version
	if version == "DEV" {
		formattedVersion = colorYellow + version + colorReset
	}

	fmt.Printf(banner, formattedVersion, colorBlue+"https://aisa.ru"+colorReset)
}
