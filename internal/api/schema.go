// api/schema.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zaliv/internal/mysql"
)

// SchemaHandler отдаёт скомпилированный DDL-скрипт как text/plain.
// ?ordered=1 включает порядок по зависимостям FK. Без явного ?ordered
// отдаём кэш реестра; компилируем заново только при переопределении
// порядка или когда кэш пуст (модель не компилируется — нужен текст
// ошибки).
func SchemaHandler(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := reg.Config()
		opts := mysql.CompileOptions{TopoOrder: cfg.Ordered}
		override := true
		switch c.Query("ordered") {
		case "1", "true":
			opts.TopoOrder = true
		case "0", "false":
			opts.TopoOrder = false
		default:
			override = false
		}

		if !override {
			if script, ok := reg.Script(); ok {
				c.String(http.StatusOK, script)
				return
			}
		}

		stmts, err := mysql.Compile(reg.Model(), cfg.Database, opts)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "compile failed", "details": err.Error()})
			return
		}
		c.String(http.StatusOK, mysql.Script(stmts))
	}
}
