package handler

import (
	"context"
	"net/http"

	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/codeadapt/learn-gateway/internal/response"
	"github.com/codeadapt/learn-gateway/internal/service"
	"github.com/codeadapt/learn-gateway/internal/session"
	"github.com/codeadapt/learn-gateway/internal/validator"
	"github.com/gin-gonic/gin"
)

// Retry modes accepted by the retry endpoint.
const (
	RetryModeWrong = "wrong"
	RetryModeFull  = "full"
)

// LearnerHandler exposes a learner's course session: topic selection, quiz
// answers, scoring and navigation.
type LearnerHandler struct {
	learnerService *service.LearnerService
}

// NewLearnerHandler creates a new LearnerHandler.
func NewLearnerHandler(learnerService *service.LearnerService) *LearnerHandler {
	return &LearnerHandler{learnerService: learnerService}
}

// GetSession godoc
// GET /api/v1/learn/courses/:course_id/session
// Opens the session on first use and returns its view.
func (h *LearnerHandler) GetSession(c *gin.Context) {
	h.run(c, func(_ context.Context, ctrl *session.Controller) (session.View, error) {
		return ctrl.View(), nil
	})
}

// CloseSession godoc
// DELETE /api/v1/learn/courses/:course_id/session
func (h *LearnerHandler) CloseSession(c *gin.Context) {
	claims, ok := learnerClaims(c)
	if !ok {
		return
	}
	courseID, ok := idParam(c, "course_id")
	if !ok {
		return
	}

	closed := h.learnerService.CloseSession(c.Request.Context(), claims.UserID, courseID)
	response.Success(c, http.StatusOK, gin.H{"closed": closed})
}

// OpenTopic godoc
// PUT /api/v1/learn/courses/:course_id/topics/:topic_id
// Direct link to a topic. Not subject to the sidebar lock.
func (h *LearnerHandler) OpenTopic(c *gin.Context) {
	topicID, ok := idParam(c, "topic_id")
	if !ok {
		return
	}
	h.run(c, func(ctx context.Context, ctrl *session.Controller) (session.View, error) {
		return ctrl.SelectTopic(ctx, topicID)
	})
}

// SelectTopic godoc
// POST /api/v1/learn/courses/:course_id/select
// Sidebar selection. Topics past the active one stay locked until it is passed.
func (h *LearnerHandler) SelectTopic(c *gin.Context) {
	var req model.SelectTopicRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.run(c, func(ctx context.Context, ctrl *session.Controller) (session.View, error) {
		return ctrl.SelectFromSidebar(ctx, req.TopicID)
	})
}

// SelectAnswer godoc
// POST /api/v1/learn/courses/:course_id/answers
func (h *LearnerHandler) SelectAnswer(c *gin.Context) {
	var req model.SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.run(c, func(ctx context.Context, ctrl *session.Controller) (session.View, error) {
		return ctrl.SelectAnswer(ctx, req.QuestionID, req.Answer)
	})
}

// Submit godoc
// POST /api/v1/learn/courses/:course_id/submit
// Scores the attempt and updates the unlock record.
func (h *LearnerHandler) Submit(c *gin.Context) {
	h.run(c, func(ctx context.Context, ctrl *session.Controller) (session.View, error) {
		return ctrl.Submit(ctx)
	})
}

// Retry godoc
// POST /api/v1/learn/courses/:course_id/retry
func (h *LearnerHandler) Retry(c *gin.Context) {
	var req model.RetryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.run(c, func(ctx context.Context, ctrl *session.Controller) (session.View, error) {
		return retry(ctx, ctrl, req.Mode)
	})
}

// Navigate godoc
// POST /api/v1/learn/courses/:course_id/navigate
func (h *LearnerHandler) Navigate(c *gin.Context) {
	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.run(c, func(ctx context.Context, ctrl *session.Controller) (session.View, error) {
		return ctrl.Navigate(ctx, session.Direction(req.Direction))
	})
}

// GetProgress godoc
// GET /api/v1/learn/courses/:course_id/progress/:topic_id
// Returns the stored unlock record; a topic never scored reads as locked.
func (h *LearnerHandler) GetProgress(c *gin.Context) {
	claims, ok := learnerClaims(c)
	if !ok {
		return
	}
	courseID, ok := idParam(c, "course_id")
	if !ok {
		return
	}
	topicID, ok := idParam(c, "topic_id")
	if !ok {
		return
	}

	ctrl, err := h.learnerService.Session(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		status, code := mapError(err)
		response.Fail(c, status, code)
		return
	}
	rec, found, err := ctrl.Progress(c.Request.Context(), topicID)
	if err != nil {
		status, code := mapError(err)
		response.Fail(c, status, code)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"topic_id": topicID,
		"found":    found,
		"progress": rec,
	})
}

// run resolves the learner's session for :course_id and applies op to it.
// Rejected operations answer with the untouched current view alongside the error.
func (h *LearnerHandler) run(c *gin.Context, op func(context.Context, *session.Controller) (session.View, error)) {
	claims, ok := learnerClaims(c)
	if !ok {
		return
	}
	courseID, ok := idParam(c, "course_id")
	if !ok {
		return
	}

	ctrl, err := h.learnerService.Session(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		status, code := mapError(err)
		response.Fail(c, status, code)
		return
	}

	view, err := op(c.Request.Context(), ctrl)
	if err != nil {
		status, code := mapError(err)
		response.FailWithData(c, status, code, gin.H{"view": ctrl.View()})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"view": view})
}

func retry(ctx context.Context, ctrl *session.Controller, mode string) (session.View, error) {
	if mode == RetryModeWrong {
		return ctrl.RetryWrong(ctx)
	}
	return ctrl.RetryFull(ctx)
}
