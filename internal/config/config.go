package config

import (
	"encoding/json"
	"os"
	"strings"
)

type Config struct {
	DSLDir   string `json:"dslDir"`   // директория с *.dsl
	Database string `json:"database"` // имя создаваемой базы
	OutDir   string `json:"outDir"`   // куда писать schema.sql и артефакты подключения
	Image    string `json:"image"`    // образ MySQL
	DBUser   string `json:"dbUser"`   // пользователь создаваемой базы
	APIPort  string `json:"apiPort"`  // порт meta-API (serve)

	// Ordered — компилировать таблицы в порядке зависимостей FK при up:
	// init-hook MySQL исполняет скрипт с включённой проверкой FK
	Ordered bool `json:"ordered"`
}

func def() Config {
	return Config{
		DSLDir:   "dsl",
		Database: "appdb",
		OutDir:   "out",
		Image:    "mysql:8.4",
		DBUser:   "app",
		APIPort:  "8080",
		Ordered:  true,
	}
}

func loadJSON(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(k); ok {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "1" || v == "true" || v == "yes" {
			return true
		}
		if v == "0" || v == "false" || v == "no" {
			return false
		}
	}
	return fallback
}

// LoadWithPath читает JSON по указанному пути (если файл есть), потом
// применяет ENV. Флаги поверх конфига навешивает cobra в cmd/.
func LoadWithPath(jsonPath string) Config {
	cfg := def()

	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		if c2, err := loadJSON(jsonPath); err == nil {
			cfg = c2
		}
	}

	cfg.DSLDir = getenv("ZALIV_DSL_DIR", cfg.DSLDir)
	cfg.Database = getenv("ZALIV_DATABASE", cfg.Database)
	cfg.OutDir = getenv("ZALIV_OUT_DIR", cfg.OutDir)
	cfg.Image = getenv("ZALIV_IMAGE", cfg.Image)
	cfg.DBUser = getenv("ZALIV_DB_USER", cfg.DBUser)
	cfg.APIPort = getenv("ZALIV_API_PORT", cfg.APIPort)
	cfg.Ordered = getenvBool("ZALIV_ORDERED", cfg.Ordered)

	return cfg
}
