package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ecomdata/import-backend/models"
	"github.com/ecomdata/import-backend/utils"
)

// userIdHeader is set by the authenticating reverse proxy in front of this
// service. Requests reaching the service without it are rejected.
const userIdHeader = "X-User-Id"

func credentialsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := strings.TrimSpace(c.GetHeader(userIdHeader))
		if userId == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"message": "missing " + userIdHeader + " header"})
			return
		}

		ctx := utils.StoreCredentialsInContext(c.Request.Context(), models.Credentials{UserId: userId})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
