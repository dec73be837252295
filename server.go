package main

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server exposes the processor over a JSON HTTP API
type Server struct {
	processor *Processor
	echo      *echo.Echo
}

type generateRequest struct {
	Prompt      string   `json:"prompt"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates a server with all routes registered
func NewServer(p *Processor) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	s := &Server{processor: p, echo: e}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/api/search", s.Search)
	e.POST("/api/generate", s.Generate)
	e.GET("/api/history", s.GetHistory)
	e.DELETE("/api/history", s.ClearHistory)

	return s
}

// Start listens on addr until the server fails
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// ServeHTTP lets the server be used as an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Search handles GET /api/search?q=...&range=...&translate=true
func (s *Server) Search(c echo.Context) error {
	dateRange, err := ParseDateRange(c.QueryParam("range"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	translate := s.processor.Settings().Search.Translate
	switch c.QueryParam("translate") {
	case "true", "1":
		translate = true
	case "false", "0":
		translate = false
	}

	result, err := s.processor.Search(c.Request().Context(), SearchRequest{
		Query:     c.QueryParam("q"),
		Range:     dateRange,
		Translate: translate,
	})
	if errors.Is(err, ErrEmptyQuery) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if err != nil {
		c.Logger().Errorf("search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "search failed"})
	}

	return c.JSON(http.StatusOK, result)
}

// Generate handles POST /api/generate
func (s *Server) Generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}

	temperature := s.processor.Settings().Generator.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	entry, err := s.processor.Generate(c.Request().Context(), GenerationRequest{
		Prompt:      req.Prompt,
		Model:       req.Model,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, entry)
	case errors.Is(err, ErrEmptyPrompt),
		errors.Is(err, ErrInvalidTemperature),
		errors.Is(err, ErrInvalidMaxTokens),
		errors.Is(err, ErrUnknownModel),
		errors.Is(err, ErrMissingModel):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrMissingCredential):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		c.Logger().Errorf("generate failed: %v", err)
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	}
}

// GetHistory handles GET /api/history
func (s *Server) GetHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, s.processor.History().Entries())
}

// ClearHistory handles DELETE /api/history
func (s *Server) ClearHistory(c echo.Context) error {
	s.processor.History().Clear()
	return c.NoContent(http.StatusNoContent)
}
