package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/response"
)

// RequireAjax rejects state-changing requests that lack X-Requested-With: XMLHttpRequest.
// Browsers refuse to attach that header cross-site without a CORS preflight.
func RequireAjax() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if c.GetHeader("X-Requested-With") != "XMLHttpRequest" {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "missing X-Requested-With header"))
			c.Abort()
			return
		}
		c.Next()
	}
}
