package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret      string
	AccessTokenTTL string

	Log      string
	LogLevel string
	Env      string // dev|prod

	// AppID — идентификатор приложения в таблице документов.
	// Три партиции (main/projects/sheets) живут под одним AppID.
	AppID string

	// DebounceMS — окно склейки исходящих записей (мс).
	DebounceMS string
	// AutosaveSec — период автосохранения черновика в редакторе (сек).
	AutosaveSec string

	SiteURL     string
	FrontendURL string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "12h"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		AppID:       def(os.Getenv("APP_ID"), "turbocms"),
		DebounceMS:  def(os.Getenv("SYNC_DEBOUNCE_MS"), "1000"),
		AutosaveSec: def(os.Getenv("EDITOR_AUTOSAVE_SEC"), "20"),

		SiteURL:     os.Getenv("SITEURL"),
		FrontendURL: os.Getenv("FRONTEND_URL"),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	// JWT — предупреждение (без секрета не заработает админка)
	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	if c.Port == "" {
		warnings = append(warnings, "PORT is empty, using default 8080")
	}

	if _, e := strconv.Atoi(c.DebounceMS); e != nil {
		warnings = append(warnings, "SYNC_DEBOUNCE_MS is not a number, using 1000")
	}
	if _, e := strconv.Atoi(c.AutosaveSec); e != nil {
		warnings = append(warnings, "EDITOR_AUTOSAVE_SEC is not a number, using 20")
	}

	return warnings, nil
}

// Debounce — окно склейки как Duration (мусор в env = дефолт 1с).
func (c *Config) Debounce() time.Duration {
	ms, err := strconv.Atoi(c.DebounceMS)
	if err != nil || ms <= 0 {
		ms = 1000
	}
	return time.Duration(ms) * time.Millisecond
}

// Autosave — период автосохранения черновика.
func (c *Config) Autosave() time.Duration {
	sec, err := strconv.Atoi(c.AutosaveSec)
	if err != nil || sec <= 0 {
		sec = 20
	}
	return time.Duration(sec) * time.Second
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
