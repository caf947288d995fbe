// api/router.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(reg *Registry) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/meta", MetaListHandler(reg))
		apiGroup.GET("/meta/:entity", MetaEntityHandler(reg))
		apiGroup.GET("/schema.sql", SchemaHandler(reg))
		apiGroup.GET("/lint", LintHandler(reg))
	}

	r.POST("/admin/reload", AdminReloadHandler(reg))

	return r
}

func RunServer(addr string, reg *Registry) error {
	return NewRouter(reg).Run(addr)
}
