package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docassist/internal/app"
	"docassist/internal/transport/http/response"
)

type SummaryHandler struct {
	summaryService *app.SummaryService
}

type CreateSummaryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

func NewSummaryHandler(summaryService *app.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// Create stores a summary delivered by the processing service's callback.
func (h *SummaryHandler) Create(c *gin.Context) {
	var req CreateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	summary, err := h.summaryService.Create(c.Request.Context(), app.CreateSummaryInput{
		DocumentID: c.Param("id"),
		Title:      req.Title,
		Content:    req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create summary failed")
		}
		return
	}
	response.OK(c, summary)
}

func (h *SummaryHandler) ListByDocument(c *gin.Context) {
	summaries, err := h.summaryService.ListByDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list summaries failed")
		}
		return
	}

	if c.Query("group") == "day" {
		response.OK(c, app.GroupSummariesByDay(time.Now(), summaries))
		return
	}
	response.OK(c, summaries)
}

func (h *SummaryHandler) Get(c *gin.Context) {
	summary, err := h.summaryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrSummaryNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSummaryNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get summary failed")
		}
		return
	}
	response.OK(c, summary)
}

func (h *SummaryHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.summaryService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrSummaryNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSummaryNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete summary failed")
		}
		return
	}
	response.OK(c, gin.H{"deleted_summary_id": id})
}
