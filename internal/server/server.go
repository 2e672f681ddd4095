package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ionut-t/nlsql/internal/metrics"
	"github.com/ionut-t/nlsql/internal/version"
	"github.com/ionut-t/nlsql/pkg/pipeline"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// maxBodyBytes bounds the /chat body; table schemas are small text blobs.
const maxBodyBytes = 1 << 20

// Runner is the part of the pipeline the HTTP layer needs.
type Runner interface {
	Run(ctx context.Context, question, table string) pipeline.Result
}

type Server struct {
	engine  *gin.Engine
	runner  Runner
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func New(runner Runner, logger *zap.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		engine:  gin.New(),
		runner:  runner,
		logger:  logger,
		metrics: m,
	}

	s.engine.Use(gin.Recovery(), s.requestID, s.logRequest)

	s.engine.POST("/chat", s.handleChat)
	s.engine.GET("/healthz", s.handleHealth)
	if m != nil {
		s.engine.GET("/metrics", gin.WrapH(m.Handler()))
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleChat(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading request body"})
		return
	}

	req, err := ParseChatRequest(body)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := s.runner.Run(c.Request.Context(), req.Prompt, req.Table)
	c.Set("outcome", result.Kind.String())

	c.String(http.StatusOK, result.String())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
}

func (s *Server) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}

	c.Set("request_id", id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (s *Server) logRequest(c *gin.Context) {
	start := time.Now()
	c.Next()
	duration := time.Since(start)

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}

	status := c.Writer.Status()
	if s.metrics != nil {
		s.metrics.ObserveHTTP(c.Request.Method, path, status, duration)
	}

	fields := []zap.Field{
		zap.String("request_id", c.GetString("request_id")),
		zap.String("method", c.Request.Method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", duration),
		zap.String("remote_addr", c.ClientIP()),
	}
	if outcome := c.GetString("outcome"); outcome != "" {
		fields = append(fields, zap.String("outcome", outcome))
	}

	s.logger.Info("http_request", fields...)
}
