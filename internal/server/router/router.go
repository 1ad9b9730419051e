package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imscloud/ims/internal/server/handlers"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "request_id"

// Handlers groups the HTTP adapters mounted by the router. Notify is optional.
type Handlers struct {
	Reports *handlers.ReportHandler
	Notify  *handlers.NotifyHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, mode string, logger *zap.Logger) *gin.Engine {
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/reports", h.Reports.Report)
	api.GET("/reports/export", h.Reports.Export)
	api.GET("/dashboard", h.Reports.Dashboard)
	api.GET("/stock", h.Reports.Stock)
	api.GET("/vendors", h.Reports.Vendors)
	api.GET("/trends/monthly", h.Reports.MonthlyTrend)
	api.GET("/trends/daily", h.Reports.DailyTrend)
	api.POST("/cache/invalidate", h.Reports.InvalidateCache)
	if h.Notify != nil {
		api.POST("/notify", h.Notify.SendMessage)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
