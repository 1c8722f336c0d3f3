// Package api exposes the estimator over HTTP with gin.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rewired-gh/ppsf/internal/estimator"
	"github.com/rewired-gh/ppsf/internal/logger"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// SetupRouter builds the gin engine for the estimator API.
func SetupRouter(service *estimator.Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "PPSF estimator is running",
		})
	})

	h := NewHandler(service)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/reference", h.Reference)
		v1.POST("/estimate", h.Estimate)
		v1.POST("/features", h.Features)
	}

	return r
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger logs every request and echoes or assigns a request ID
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		if status >= http.StatusInternalServerError {
			logger.Error("[%s] %s %s %d %v %s", requestID, c.Request.Method, c.Request.URL.Path, status, latency, c.Errors.String())
			return
		}
		logger.Info("[%s] %s %s %d %v", requestID, c.Request.Method, c.Request.URL.Path, status, latency)
	}
}
