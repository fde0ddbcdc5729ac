// Package api is the thin HTTP wrapper around internal/engine. It exposes
// index lifecycle and per-document CRUD; query parsing, ranking, and
// scoring are out of this wrapper's scope and live (if anywhere) above
// internal/search.Reader.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ogini-search/core/internal/engine"
)

// SetupRoutes wires every handler onto router against the given Engine.
func SetupRoutes(router *gin.Engine, eng *engine.Engine) {
	h := &handlers{engine: eng}

	router.GET("/health", h.health)

	indexes := router.Group("/indexes")
	{
		indexes.GET("", h.listIndices)
		indexes.POST("", h.createIndex)
		indexes.GET("/:index", h.getIndex)
		indexes.DELETE("/:index", h.deleteIndex)
		indexes.PUT("/:index/name", h.renameIndex)
		indexes.POST("/:index/clear", h.clearIndex)

		indexes.PUT("/:index/documents/:id", h.putDocument)
		indexes.GET("/:index/documents/:id", h.getDocument)
		indexes.DELETE("/:index/documents/:id", h.deleteDocument)
	}
}

type handlers struct {
	engine *engine.Engine
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}
