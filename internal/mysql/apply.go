package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
)

// Apply выполняет операторы по порядку. DDL идемпотентен (DROP ... IF
// EXISTS перед каждым CREATE), поэтому повторный прогон по живой базе
// обязан проходить; "already exists" от создания базы пропускаем.
//
// Весь прогон идёт на одном соединении: InnoDB отказывает в DROP
// таблицы, на которую смотрит чужой FK (ошибка 3730), поэтому на
// время прогона выключаем проверку, а SET FOREIGN_KEY_CHECKS живёт в
// рамках сессии.
func Apply(ctx context.Context, db *sql.DB, stmts []string) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=0"); err != nil {
		return fmt.Errorf("disable foreign key checks: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=1")
	}()

	for _, stmt := range stmts {
		sqlText := strings.TrimSpace(stmt)
		if sqlText == "" {
			continue
		}
		if _, err := conn.ExecContext(ctx, sqlText); err != nil {
			// 1007 — database exists, 1050 — table exists
			var myErr *mysqldrv.MySQLError
			if errors.As(err, &myErr) && (myErr.Number == 1007 || myErr.Number == 1050) {
				log.Printf("DDL skipped (already exists): %s", strings.TrimSpace(myErr.Message))
				continue
			}
			// подстраховка по фразе (на случай других объектов)
			e := strings.ToLower(err.Error())
			if strings.Contains(e, "already exists") {
				log.Printf("DDL skipped (already exists): %v", err)
				continue
			}
			return fmt.Errorf("DDL apply failed: %w", err)
		}
	}
	return nil
}
