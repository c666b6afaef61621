package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stratify/internal/bridge"
	"stratify/internal/coach"
	"stratify/internal/pipeline"
	"stratify/internal/telemetry"
	"stratify/internal/types"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type analysisRequest struct {
	UnderstandingID  string   `json:"understanding_id"`
	ProblemStatement string   `json:"problem_statement" binding:"required"`
	Background       string   `json:"background"`
	Assumptions      []string `json:"assumptions"`
}

func (s *Server) handleAnalysis(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if req.UnderstandingID == "" {
		req.UnderstandingID = uuid.NewString()
	}

	orch := pipeline.NewOrchestrator(s.llm, s.cfg.Analysis.SignificantThreshold, s.log)
	result, err := orch.Run(c.Request.Context(), req.UnderstandingID, pipeline.RunInput{
		ProblemStatement: req.ProblemStatement,
		Background:       req.Background,
		Assumptions:      req.Assumptions,
	})
	if err != nil {
		var sf *pipeline.StageFailure
		if errors.As(err, &sf) {
			s.log.Warn("analysis aborted",
				zap.String("understanding_id", req.UnderstandingID),
				zap.String("stage", sf.Stage),
				zap.Error(sf.Err))
			c.JSON(http.StatusBadGateway, gin.H{
				"status":    "analysis_failed",
				"stage":     sf.Stage,
				"error":     sf.Error(),
				"retryable": true,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type validateRequest struct {
	Level        int      `json:"level" binding:"required"`
	Candidate    string   `json:"candidate"`
	PreviousWhys []string `json:"previous_whys"`
	RootQuestion string   `json:"root_question" binding:"required"`
}

func (s *Server) handleWhysValidate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	co := &coach.Coach{LLM: s.llm}
	eval := co.ValidateWhy(c.Request.Context(), req.Level, req.Candidate, req.PreviousWhys, req.RootQuestion)
	c.JSON(http.StatusOK, eval)
}

type coachingRequest struct {
	Question     string               `json:"question" binding:"required"`
	Candidate    string               `json:"candidate"`
	RootQuestion string               `json:"root_question"`
	History      []types.CoachingTurn `json:"history"`
}

func (s *Server) handleWhysCoaching(c *gin.Context) {
	var req coachingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	co := &coach.Coach{LLM: s.llm}
	guidance := co.Coaching(c.Request.Context(), req.Question, req.Candidate, req.RootQuestion, req.History)
	c.JSON(http.StatusOK, gin.H{"guidance": guidance})
}

type bridgeRequest struct {
	AnalysisID string               `json:"analysis_id"`
	Porters    *types.PortersOutput `json:"porters"`
	Pestle     *types.PestleOutput  `json:"pestle"`
	TopN       int                  `json:"top_n"`
}

type bridgeResponse struct {
	Derivation types.Derivation        `json:"derivation"`
	Formatted  string                  `json:"formatted"`
	Cached     bool                    `json:"cached"`
	Telemetry  types.TelemetrySnapshot `json:"telemetry"`
}

// handleBridge derives SWOT context from upstream framework outputs.
// Results are cached per analysis id so repeat calls with only the id
// skip re-derivation.
func (s *Server) handleBridge(c *gin.Context) {
	var req bridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	led := telemetry.NewLedger()
	if req.AnalysisID != "" && req.Porters == nil && req.Pestle == nil {
		if v, ok := s.cache.Get(bridgeCacheKey(req.AnalysisID)); ok {
			led.RecordCacheHit()
			d := v.(types.Derivation)
			c.JSON(http.StatusOK, bridgeResponse{
				Derivation: d,
				Formatted:  bridge.FormatForSWOT(d),
				Cached:     true,
				Telemetry:  led.Snapshot(),
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "no cached derivation for analysis_id"})
		return
	}

	topN := req.TopN
	if topN <= 0 {
		topN = s.cfg.Analysis.BridgeTopN
	}
	d := bridge.Derive(req.Porters, req.Pestle, bridge.Options{TopN: topN})
	led.RecordAPICall()
	if req.AnalysisID != "" {
		s.cache.Set(bridgeCacheKey(req.AnalysisID), d)
	}
	c.JSON(http.StatusOK, bridgeResponse{
		Derivation: d,
		Formatted:  bridge.FormatForSWOT(d),
		Telemetry:  led.Snapshot(),
	})
}

func bridgeCacheKey(analysisID string) string {
	return "bridge:" + analysisID
}
