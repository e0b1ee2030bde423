package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"story_engine/generator"
)

type generateReq struct {
	Prompt     string `json:"prompt"`
	AgeBracket string `json:"ageBracket"`
	Age        int    `json:"age"`
	Category   string `json:"category"`
}

type generateResp struct {
	Story      string `json:"story"`
	Category   string `json:"category"`
	AgeBracket string `json:"ageBracket"`
	AudioURL   string `json:"audioUrl,omitempty"`
}

type reviseReq struct {
	Story    string `json:"story"`
	Feedback string `json:"feedback"`
}

type reviseResp struct {
	Story    string `json:"story"`
	AudioURL string `json:"audioUrl,omitempty"`
}

type errorResp struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "ttsAvailable": s.speech.Available()})
}

func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": s.stories.Categories()})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateReq
	if !bindOptionalJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	res, err := s.stories.Generate(ctx, generator.StoryRequest{
		Prompt:     req.Prompt,
		AgeBracket: req.AgeBracket,
		Age:        req.Age,
		Category:   req.Category,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.log.Debug("story generated",
		zap.String("category", res.Category),
		zap.String("age_bracket", string(res.AgeBracket)),
		zap.Int("words", res.WordCount),
	)

	c.JSON(http.StatusOK, generateResp{
		Story:      res.Story,
		Category:   res.Category,
		AgeBracket: string(res.AgeBracket),
		AudioURL:   s.speech.AudioURL(ctx, res.Story),
	})
}

func (s *Server) handleRevise(c *gin.Context) {
	var req reviseReq
	if !bindOptionalJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	revised, err := s.stories.Revise(ctx, req.Story, req.Feedback)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviseResp{
		Story:    revised,
		AudioURL: s.speech.AudioURL(ctx, revised),
	})
}

// bindOptionalJSON decodes the request body into v. An empty body leaves v
// zero-valued. On malformed JSON it writes a 400 and returns false.
func bindOptionalJSON(c *gin.Context, v any) bool {
	if c.Request.Body == nil {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResp{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, generator.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, errorResp{
		Error:     err.Error(),
		Retryable: generator.IsRetryable(err),
	})
}
