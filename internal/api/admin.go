package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zaliv/internal/dsl"
)

type reloadReq struct {
	DSLRoot string `json:"dsl_root"` // директория с *.dsl; пустая — из конфига
}

// AdminReloadHandler перечитывает DSL с диска и атомарно подменяет
// модель. Невалидная модель в Registry не попадает.
func AdminReloadHandler(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reloadReq
		// пустое тело — нормально, возьмём dslRoot из конфига
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		dslRoot := strings.TrimSpace(req.DSLRoot)
		if dslRoot == "" {
			dslRoot = reg.Config().DSLDir
		}

		// 1) читаем и валидируем новую модель
		next, err := dsl.LoadAll(dslRoot)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "DSL load error", "details": err.Error()})
			return
		}
		if err := next.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "model has blocking issues",
				"details": err.Error(),
				"hint":    "fix DSL and retry",
				"dslRoot": dslRoot,
			})
			return
		}

		// 2) атомарная замена
		reg.Replace(next)

		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"dslRoot":   dslRoot,
			"entities":  len(next.Entities),
			"relations": len(next.Relationships),
			"lint":      Lint(next),
		})
	}
}
