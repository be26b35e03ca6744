package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request_id"
	maxRequestIDLength  = 128
)

type App struct {
	cfg        *Config
	log        *slog.Logger
	dispatcher *Dispatcher
}

type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string { return e.Message }

func (a *App) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(a.requestIDMiddleware())
	r.Use(a.loggingMiddleware())
	r.Use(a.corsMiddleware())
	r.Use(metricsMiddleware())
	r.Use(gin.CustomRecovery(a.recoverHandler))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metricsHandler())

	api := r.Group("/api")
	{
		api.POST("/contact", a.contactHandler)
	}

	return r
}

func (a *App) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (a *App) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"request_id", c.GetString(requestIDContextKey),
		)
	}
}

func (a *App) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if a.isAllowedCORSOrigin(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *App) isAllowedCORSOrigin(origin string) bool {
	if origin == "" || a.cfg == nil {
		return false
	}
	if a.cfg.PublicBaseURL != "" && origin == a.cfg.PublicBaseURL {
		return true
	}
	if !strings.EqualFold(a.cfg.Env, "development") {
		return false
	}
	return origin == devCORSOriginLocalhost || origin == devCORSOriginLoopback
}

func (a *App) recoverHandler(c *gin.Context, recovered any) {
	a.log.Error("panic recovered",
		"path", c.Request.URL.Path,
		"request_id", c.GetString(requestIDContextKey),
		"panic", recovered,
	)
	if c.FullPath() == contactRoute {
		recordContactOutcome(outcomeError)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, contactResponse{OK: false, Error: errCodeServerError})
}

// writeAPIError never exposes err's text to the client.
func writeAPIError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, contactResponse{OK: false, Error: apiErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, contactResponse{OK: false, Error: errCodeServerError})
}
