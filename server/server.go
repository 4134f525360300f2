// Package server exposes the restoration engine over HTTP: a multipart
// upload endpoint returning the restored image as base64 PNG, plus region
// pre-flight and health endpoints.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	watermark "github.com/clearframe/wmrestore"
	"github.com/clearframe/wmrestore/config"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// New assembles the gin router with all routes registered.
func New(cfg *config.Config, log *zap.Logger, eng *watermark.Engine) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
	})

	h := NewRestoreHandler(cfg, log, eng)

	api := r.Group("/api/v1")
	{
		api.POST("/restore", h.Restore)
		api.GET("/region", h.Region)
		api.GET("/variants", h.Variants)
	}

	return r
}

// Run starts the HTTP server with the configured timeouts and blocks until
// it exits.
func Run(cfg *config.Config, log *zap.Logger, eng *watermark.Engine) error {
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      New(cfg, log, eng),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Info("server starting", zap.String("addr", cfg.Server.Port))
	return srv.ListenAndServe()
}
