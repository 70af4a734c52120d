package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"docassist/internal/app"
	"docassist/internal/pkg/pdfextract"
	"docassist/internal/transport/http/middleware"
	"docassist/internal/transport/http/response"
)

type DocumentHandler struct {
	uploadService   *app.UploadService
	documentService *app.DocumentService
	maxUploadSize   int64
}

func NewDocumentHandler(uploadService *app.UploadService, documentService *app.DocumentService, maxUploadSizeMB int) *DocumentHandler {
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = 10
	}
	return &DocumentHandler{
		uploadService:   uploadService,
		documentService: documentService,
		maxUploadSize:   int64(maxUploadSizeMB) << 20,
	}
}

// Upload accepts a multipart form with a "file" field carrying a PDF,
// validates it and drives it through the processing flow. The response is the
// terminal upload result; its page count comes from local inspection, not the
// remote service.
func (h *DocumentHandler) Upload(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid session")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > h.maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large")
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "only PDF files are allowed")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	info, err := pdfextract.Inspect(data)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file is not a valid PDF")
		return
	}

	result := h.uploadService.Upload(c.Request.Context(), app.UploadInput{
		Filename: file.Filename,
		Data:     data,
		Session:  session,
	})

	response.OK(c, gin.H{
		"result":       result,
		"page_count":   info.PageCount,
		"text_preview": info.TextPreview,
	})
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get document failed")
		}
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		}
		return
	}
	response.OK(c, gin.H{"deleted_document_id": id})
}

// Status runs a single remote status check and mirrors the answer into the
// store. Status is always reported as data, even when it is "failed".
func (h *DocumentHandler) Status(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid session")
		return
	}

	result := h.uploadService.CheckStatus(c.Request.Context(), c.Param("id"), session)
	response.OK(c, result)
}

func (h *DocumentHandler) Events(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.documentService.Events(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list document events failed")
		}
		return
	}
	response.OK(c, events)
}
