// Package server provides the HTTP presentation shell over a conversation
// session. It exposes the session's operations as a small JSON API and maps
// classified errors onto HTTP status codes. It holds no conversation state
// of its own.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"claudechat/internal/config"
	"claudechat/internal/logger"
	"claudechat/internal/session"
	"claudechat/pkg/chattypes"
)

// Server wraps one conversation session behind an HTTP API. Multi-user
// session storage is deliberately out of scope; one server process serves
// one conversation.
type Server struct {
	session *session.Session
}

// New creates a Server for the given session.
func New(sess *session.Session) *Server {
	return &Server{session: sess}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api/v1")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/history", s.handleGetHistory)
		api.DELETE("/history", s.handleClearHistory)
		api.GET("/config", s.handleGetConfig)
		api.PUT("/config", s.handleUpdateConfig)
	}

	return router
}

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	logger.Info("Starting HTTP server", "addr", addr)
	return s.Router().Run(addr)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Model     string `json:"model"`
	Attempts  int    `json:"attempts"`
	LatencyMs int64  `json:"latency_ms"`
	Timestamp string `json:"timestamp"`
}

// handleChat forwards one user message to the session.
// POST /api/v1/chat
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with a 'message' field"})
		return
	}

	result, err := s.session.SendWithMetadata(c.Request.Context(), req.Message)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Response:  result.Response,
		Model:     result.ModelID,
		Attempts:  result.Attempts,
		LatencyMs: result.Latency.Milliseconds(),
		Timestamp: result.Timestamp.UTC().Format(time.RFC3339),
	})
}

// handleGetHistory returns an ordered copy of the conversation.
// GET /api/v1/history
func (s *Server) handleGetHistory(c *gin.Context) {
	messages := s.session.HistorySnapshot()
	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

// handleClearHistory truncates the conversation.
// DELETE /api/v1/history
func (s *Server) handleClearHistory(c *gin.Context) {
	s.session.ClearHistory()
	c.Status(http.StatusNoContent)
}

// handleGetConfig returns the active configuration.
// GET /api/v1/config
func (s *Server) handleGetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Config())
}

type configUpdateRequest struct {
	ModelID       *string  `json:"model_id"`
	Temperature   *float64 `json:"temperature"`
	MaxTokens     *int     `json:"max_tokens"`
	SystemPrompt  *string  `json:"system_prompt"`
	HistoryWindow *int     `json:"history_window"`
}

// handleUpdateConfig applies partial overrides to the active configuration.
// The session keeps its provider client, so switching to a model served by
// a different provider is rejected here.
// PUT /api/v1/config
func (s *Server) handleUpdateConfig(c *gin.Context) {
	var req configUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON"})
		return
	}

	current := s.session.Config()
	next, err := current.WithOverrides(config.Overrides{
		ModelID:       req.ModelID,
		Temperature:   req.Temperature,
		MaxTokens:     req.MaxTokens,
		SystemPrompt:  req.SystemPrompt,
		HistoryWindow: req.HistoryWindow,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	if req.ModelID != nil {
		currentProvider, _ := current.Provider()
		nextProvider, _ := next.Provider()
		if currentProvider != nextProvider {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "cannot switch provider on a running session; restart with the new model",
			})
			return
		}
	}

	if err := s.session.Reconfigure(next); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, next)
}

// handleHealth reports liveness and session state.
// GET /healthz
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"state":  s.session.State().String(),
	})
}

// writeError maps a classified error onto an HTTP status. Unclassified
// errors become 500 without leaking transport detail.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch chattypes.KindOf(err) {
	case chattypes.ErrEmptyInput, chattypes.ErrInvalidRequest, chattypes.ErrInvalidConfiguration:
		status = http.StatusBadRequest
	case chattypes.ErrSessionBusy:
		status = http.StatusConflict
	case chattypes.ErrAuthentication:
		status = http.StatusUnauthorized
	case chattypes.ErrRateLimited:
		status = http.StatusTooManyRequests
	case chattypes.ErrTimeout:
		status = http.StatusGatewayTimeout
	case chattypes.ErrServiceUnavailable:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  chattypes.KindOf(err).String(),
	})
}
