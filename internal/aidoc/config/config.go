// Управление конфигурацией приложения из переменных окружения.
// Содержит структуру Config для хранения параметров и функцию ReadConfig для их загрузки из переменных окружения.
//
// Основные возможности:
//   - Загрузка конфигурации из переменных окружения с использованием тегов struct.
//   - Преобразование типов данных из переменных окружения (string, int, bool).
//   - Маскировка секретных значений (passwords) в логах.
//   - Значения по умолчанию и ограничение диапазонов (например, AutosaveDelay).
package config

import (
	"log/slog"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_URL"`
	SqlitePath  string `env:"SQLITE_PATH"`

	WebURLRaw string `env:"WEB_URL"`
	WebURL    *url.URL

	AWSAccessKey  string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey  string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSEndpoint   string `env:"AWS_S3_ENDPOINT_URL"`
	AWSBucketName string `env:"AWS_S3_BUCKET_NAME"`

	StoragePath string `env:"STORAGE_PATH"`

	// Тихий период автосохранения в секундах (trailing-edge debounce)
	AutosaveDelay int `env:"AUTOSAVE_DELAY"`

	// Время жизни неактивных черновиков в днях
	DraftTTLDays int `env:"DRAFT_TTL_DAYS"`

	// Время жизни неактивной сессии редактора в минутах
	SessionTTLMinutes int `env:"SESSION_TTL"`

	ImportMaxSizeMB int `env:"IMPORT_MAX_SIZE_MB"`

	MetricsEnable bool `env:"METRICS"`
	Demo          bool `env:"DEMO"`
}

// AutosaveQuiet возвращает тихий период планировщика автосохранения.
func (c *Config) AutosaveQuiet() time.Duration {
	return time.Duration(c.AutosaveDelay) * time.Second
}

// SessionTTL возвращает время жизни неактивной сессии редактора.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// ReadConfig загружает конфигурацию приложения из переменных окружения и выполняет валидацию.
// Если WEB_URL не задан, приложение завершает работу с ошибкой. Значения вне допустимого
// диапазона приводятся к значениям по умолчанию.
func ReadConfig() *Config {
	config := &Config{}

	envConfig("env", config)

	// Check required envs
	if config.WebURLRaw == "" {
		slog.Error("WEB_URL is required")
		os.Exit(1)
	} else {
		var err error
		config.WebURL, err = url.Parse(config.WebURLRaw)
		if err != nil {
			slog.Error("WEB_URL incorrect", "err", err)
			os.Exit(1)
		}
	}

	if config.AutosaveDelay <= 0 || config.AutosaveDelay > 60 {
		config.AutosaveDelay = 5
	}

	if config.DraftTTLDays <= 0 {
		config.DraftTTLDays = 30
	}

	if config.SessionTTLMinutes <= 0 {
		config.SessionTTLMinutes = 120
	}

	if config.ImportMaxSizeMB <= 0 || config.ImportMaxSizeMB > 100 {
		config.ImportMaxSizeMB = 20
	}

	if config.SqlitePath == "" {
		config.SqlitePath = "aidoc.db"
	}

	if config.StoragePath == "" {
		config.StoragePath = "storage"
	}

	return config
}

// Присваивает полям в переданной структуре значения переменных. Название переменной для каждого поля лежит в теге этого поля.
func envConfig(key string, s interface{}) {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fName := typeParam.Field(i).Name
		fEnvTag := typeParam.Field(i).Tag.Get(key)

		if !Exist(fEnvTag) {
			continue
		}

		logValue := GetEnv(fEnvTag)
		if logValue == "" {
			continue
		}

		// Secure passwords in log
		if strings.Contains(strings.ToLower(fName), "pass") || strings.Contains(strings.ToLower(fName), "secret") || strings.Contains(strings.ToLower(fName), "token") {
			pass := strings.Split(GetEnv(fEnvTag), "")
			logValue = pass[0]
			for i := 1; i < len(pass)-1; i++ {
				logValue += "*"
			}
			logValue += pass[len(pass)-1]
		}
		slog.Info("Set config value",
			slog.String("key", typeParam.Name()+"."+fName),
			slog.String("value", logValue),
			slog.String("source", "ENVIRONMENT"),
		)

		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(GetEnv(fEnvTag))
		case int:
			v.Field(i).SetInt(int64(GetIntEnv(fEnvTag)))
		case bool:
			v.Field(i).SetBool(GetBoolEnv(fEnvTag))
		}
	}
}
