package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ogini-search/core/config"
	"github.com/ogini-search/core/internal/docproc"
	cerrors "github.com/ogini-search/core/internal/errors"
)

// errorResponse maps a domain error from internal/errors onto an HTTP
// status and a small JSON body. Unrecognized errors are treated as
// internal errors rather than guessed at.
func errorResponse(c *gin.Context, err error) {
	var (
		notFound      *cerrors.IndexNotFoundError
		docNotFound   *cerrors.DocumentNotFoundError
		alreadyExists *cerrors.IndexAlreadyExistsError
		sameName      *cerrors.SameNameError
		validation    *cerrors.ValidationError
		invalidConfig *cerrors.InvalidConfigError
		conflict      *cerrors.ConflictError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &docNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &alreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &sameName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &invalidConfig):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "correlation_id": uuid.NewString()})
	}
}

type createIndexRequest struct {
	Name     string               `json:"name" binding:"required"`
	Settings config.IndexSettings `json:"settings"`
	Mapping  docproc.IndexMapping `json:"mapping"`
}

func (h *handlers) createIndex(c *gin.Context) {
	var req createIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	idx, err := h.engine.CreateIndex(c.Request.Context(), req.Name, req.Settings, req.Mapping)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, idx.Meta())
}

func (h *handlers) listIndices(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.ListIndices())
}

func (h *handlers) getIndex(c *gin.Context) {
	idx, err := h.engine.GetIndex(c.Param("index"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, idx.Meta())
}

func (h *handlers) deleteIndex(c *gin.Context) {
	if err := h.engine.DeleteIndex(c.Request.Context(), c.Param("index")); err != nil {
		errorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) clearIndex(c *gin.Context) {
	if err := h.engine.ClearIndex(c.Request.Context(), c.Param("index")); err != nil {
		errorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type renameIndexRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

func (h *handlers) renameIndex(c *gin.Context) {
	var req renameIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.engine.RenameIndex(c.Request.Context(), c.Param("index"), req.NewName); err != nil {
		errorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) putDocument(c *gin.Context) {
	idx, err := h.engine.GetIndex(c.Param("index"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	var source map[string]any
	if err := c.ShouldBindJSON(&source); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if id == "" || id == "-" {
		id = uuid.NewString()
	}

	fields, err := idx.Indexer().IndexDocument(c.Request.Context(), id, source, false)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "indexed_fields": fields})
}

func (h *handlers) getDocument(c *gin.Context) {
	idx, err := h.engine.GetIndex(c.Param("index"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	doc, ok := idx.DocumentStore().Get(c.Param("id"))
	if !ok {
		errorResponse(c, cerrors.NewDocumentNotFoundError(c.Param("id"), c.Param("index")))
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handlers) deleteDocument(c *gin.Context) {
	idx, err := h.engine.GetIndex(c.Param("index"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	if err := idx.Indexer().RemoveDocument(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
