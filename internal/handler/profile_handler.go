package handler

import (
	"net/http"

	"github.com/codeadapt/learn-gateway/internal/response"
	"github.com/gin-gonic/gin"
)

// ProfileHandler reports who the current token belongs to. Sign-in itself is
// handled by the upstream platform.
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Me godoc
// GET /api/v1/me
func (h *ProfileHandler) Me(c *gin.Context) {
	claims, ok := learnerClaims(c)
	if !ok {
		return
	}

	body := gin.H{"learner_id": claims.UserID}
	if claims.ExpiresAt != nil {
		body["expires_at"] = claims.ExpiresAt.Time
	}
	response.Success(c, http.StatusOK, body)
}
