// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hackrx/bill-extractor/internal/assemble"
	"github.com/hackrx/bill-extractor/internal/common"
)

// Processor is satisfied by pipeline.Pipeline.
type Processor interface {
	Process(ctx context.Context, url string) (assemble.Response, error)
}

type Server struct {
	proc   Processor
	logger *slog.Logger
}

type extractRequest struct {
	Document string `json:"document"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func New(proc Processor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{proc: proc, logger: logger}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Bill Extraction API - POST to /extract-bill-data with {\"document\": \"url\"}",
		})
	})
	r.POST("/extract-bill-data", s.handleExtract)

	return r
}

func (s *Server) handleExtract(c *gin.Context) {
	var req extractRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errorBody{
			Kind:    "invalid_request",
			Message: "body must be JSON with a \"document\" URL",
		}})
		return
	}

	reqID := uuid.New().String()
	ctx := common.WithRequestID(c.Request.Context(), reqID)

	s.logger.Info("server.extract.start", "req_id", reqID, "document", req.Document)

	resp, err := s.proc.Process(ctx, req.Document)
	if err != nil {
		status, kind := classifyError(err)
		s.logger.Error("server.extract.failed", "req_id", reqID, "kind", kind, "error", err)
		c.JSON(status, errorResponse{Error: errorBody{Kind: kind, Message: err.Error()}})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// classifyError maps the pipeline's typed errors onto HTTP status and a
// stable error kind for the response body.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, common.ErrFetch):
		return http.StatusBadRequest, "fetch_error"
	case errors.Is(err, common.ErrDecode):
		return http.StatusBadRequest, "decode_error"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
