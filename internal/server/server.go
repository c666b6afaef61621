// Package server exposes the analysis pipeline, the five-whys coach and
// the Porter's/PESTLE bridge over HTTP.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stratify/internal/cache"
	"stratify/internal/config"
	"stratify/internal/llmclient"
)

type Server struct {
	cfg   *config.Config
	llm   *llmclient.Fallback
	cache cache.Cache
	log   *zap.Logger
}

func New(cfg *config.Config, llm *llmclient.Fallback, store cache.Cache, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, llm: llm, cache: store, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analysis", s.handleAnalysis)
		v1.POST("/whys/validate", s.handleWhysValidate)
		v1.POST("/whys/coaching", s.handleWhysCoaching)
		v1.POST("/bridge/swot-context", s.handleBridge)
	}
	return r
}

func (s *Server) Run() error {
	return s.Router().Run(s.cfg.Port)
}
