package handler

import (
	"net/http"

	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/codeadapt/learn-gateway/internal/response"
	"github.com/codeadapt/learn-gateway/internal/service"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves course and topic listings.
type CatalogHandler struct {
	learnerService *service.LearnerService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(learnerService *service.LearnerService) *CatalogHandler {
	return &CatalogHandler{learnerService: learnerService}
}

// ListCourses godoc
// GET /api/v1/courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.learnerService.ListCourses(c.Request.Context())
	if err != nil {
		status, code := mapError(err)
		response.Fail(c, status, code)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// ListTopics godoc
// GET /api/v1/courses/:course_id/topics
// Topics come back in navigation order.
func (h *CatalogHandler) ListTopics(c *gin.Context) {
	courseID, ok := idParam(c, "course_id")
	if !ok {
		return
	}

	topics, err := h.learnerService.ListTopics(c.Request.Context(), courseID)
	if err != nil {
		status, code := mapError(err)
		response.Fail(c, status, code)
		return
	}
	if topics == nil {
		topics = []model.TopicSummary{}
	}
	response.Success(c, http.StatusOK, gin.H{"topics": topics})
}
