package appconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Connection — параметры подключения, которые получает зависимое
// приложение. Ровно то, что уходит в database.yaml / database.env.
type Connection struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// DSN собирает строку подключения go-sql-driver/mysql.
func (c *Connection) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// WriteYAML пишет database.yaml. Внутри пароль — права только владельцу.
func WriteYAML(path string, c *Connection) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func ReadYAML(path string) (*Connection, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Connection
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// WriteEnv пишет database.env для приложений, читающих окружение.
func WriteEnv(path string, c *Connection) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	vars := map[string]string{
		"DB_HOST":     c.Host,
		"DB_PORT":     fmt.Sprintf("%d", c.Port),
		"DB_NAME":     c.Database,
		"DB_USER":     c.User,
		"DB_PASSWORD": c.Password,
		"DB_DSN":      c.DSN(),
	}
	if err := godotenv.Write(vars, path); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// WriteScript пишет schema.sql — его подхватывает init-hook контейнера.
func WriteScript(path, script string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(script), 0o644)
}
