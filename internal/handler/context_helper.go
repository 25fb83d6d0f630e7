package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/StudyBeacon/physics-learn/internal/middleware"
	"github.com/StudyBeacon/physics-learn/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return claims
}
