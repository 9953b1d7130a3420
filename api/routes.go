package api

import (
	"net/http"
	"time"

	limits "github.com/gin-contrib/size"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"

	"github.com/ecomdata/import-backend/usecases"
)

func timeoutMiddleware(duration time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(duration),
		timeout.WithHandler(func(c *gin.Context) {
			c.Next()
		}),
		timeout.WithResponse(func(c *gin.Context) {
			c.String(http.StatusRequestTimeout, "timeout")
		}),
	)
}

func addRoutes(r *gin.Engine, conf Configuration, uc usecases.Usecases) {
	r.GET("/liveness", handleLivenessProbe(uc))

	router := r.Use(credentialsMiddleware())

	router.POST("/imports",
		limits.RequestSizeLimiter(conf.MaxUploadSize), handleUploadFile(uc))
	router.GET("/imports", handleListImports(uc))
	router.GET("/imports/:import_id", handleGetImport(uc))
	router.POST("/imports/:import_id/parse", handleParseFile(uc))
	router.POST("/imports/:import_id/mapping/propose", handleProposeMapping(uc))
	router.PUT("/imports/:import_id/mapping", handleSetMapping(uc))
	router.POST("/imports/:import_id/validate", handleValidateRows(uc))
	router.POST("/imports/:import_id/confirm",
		timeoutMiddleware(conf.ConfirmTimeout), handleConfirmImport(uc))
	router.POST("/imports/:import_id/cancel", handleCancelImport(uc))
	router.GET("/imports/:import_id/progress", handleGetProgress(uc))
}
