package provision

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"zaliv/internal/mysql"
)

type Params struct {
	Image    string // например mysql:8.4
	Database string
	User     string
	Password string // пустой — сгенерируем

	// ScriptPath — schema.sql; монтируется в init-hook образа
	// (/docker-entrypoint-initdb.d), DDL исполняет сам сервер при
	// первом старте. Ядро компиляции файлов не пишет и контейнеров
	// не трогает — сюда приходит уже готовый артефакт.
	ScriptPath string

	// Keep — оставить контейнер жить после выхода процесса
	// (отключает reaper testcontainers)
	Keep bool
}

// Instance — поднятый локальный инстанс MySQL.
type Instance struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	ContainerID string

	container *tcmysql.MySQLContainer
}

// DSN — строка подключения go-sql-driver/mysql.
func (i *Instance) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		i.User, i.Password, i.Host, i.Port, i.Database)
}

// RootDSN — подключение суперпользователем (образ ставит root тот же
// пароль). Нужен для административного DDL вроде CREATE DATABASE:
// прикладной пользователь ограничен своей базой.
func (i *Instance) RootDSN() string {
	return fmt.Sprintf("root:%s@tcp(%s:%d)/%s?parseTime=true",
		i.Password, i.Host, i.Port, i.Database)
}

func (i *Instance) Terminate(ctx context.Context) error {
	if i.container == nil {
		return nil
	}
	return i.container.Terminate(ctx)
}

// NewPassword генерирует одноразовый пароль локального инстанса.
// ULID — 26 символов Crockford base32; для dev-базы достаточно.
func NewPassword() string {
	return strings.ToLower(ulid.Make().String())
}

// Up поднимает контейнер MySQL, дожидается готовности базы и
// возвращает параметры подключения.
func Up(ctx context.Context, p Params) (*Instance, error) {
	if p.Image == "" {
		p.Image = "mysql:8.4"
	}
	if p.Database == "" {
		return nil, fmt.Errorf("provision: empty database name")
	}
	if p.User == "" {
		p.User = "app"
	}
	if p.Password == "" {
		p.Password = NewPassword()
	}
	if p.Keep {
		// иначе reaper снесёт контейнер сразу после выхода zaliv
		os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
	}

	opts := []testcontainers.ContainerCustomizer{
		tcmysql.WithDatabase(p.Database),
		tcmysql.WithUsername(p.User),
		tcmysql.WithPassword(p.Password),
	}
	if p.ScriptPath != "" {
		opts = append(opts, tcmysql.WithScripts(p.ScriptPath))
	}

	ctr, err := tcmysql.Run(ctx, p.Image, opts...)
	if err != nil {
		return nil, fmt.Errorf("mysql container start: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := ctr.MappedPort(ctx, "3306/tcp")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("container port: %w", err)
	}

	inst := &Instance{
		Host:        host,
		Port:        port.Int(),
		Database:    p.Database,
		User:        p.User,
		Password:    p.Password,
		ContainerID: ctr.GetContainerID(),
		container:   ctr,
	}

	if err := waitReady(ctx, inst.DSN()); err != nil {
		_ = ctr.Terminate(ctx)
		return nil, err
	}
	return inst, nil
}

// waitReady — контрольный ping с фиксированным интервалом поверх
// wait-стратегии testcontainers: init-скрипты добегают уже после того,
// как порт открылся.
func waitReady(ctx context.Context, dsn string) error {
	wctx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()

	var lastErr error
	for {
		db, err := mysql.Open(dsn)
		if err == nil {
			_ = db.Close()
			return nil
		}
		lastErr = err
		log.Printf("mysql not ready yet: %v", err)
		select {
		case <-wctx.Done():
			return fmt.Errorf("database not ready: %w", lastErr)
		case <-time.After(2 * time.Second):
		}
	}
}
