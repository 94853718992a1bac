package handler

import (
	"net/http"
	"strconv"

	"github.com/codeadapt/learn-gateway/internal/middleware"
	"github.com/codeadapt/learn-gateway/internal/response"
	"github.com/codeadapt/learn-gateway/internal/service"
	"github.com/gin-gonic/gin"
)

// idParam parses a positive integer path parameter, writing INVALID_ID on failure.
func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// learnerClaims returns the authenticated learner, writing TOKEN_REQUIRED when missing.
func learnerClaims(c *gin.Context) (*service.Claims, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	return claims, true
}
