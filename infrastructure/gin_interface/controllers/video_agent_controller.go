package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"short-video-agent/application/ports/inbound"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/domain"
	"short-video-agent/infrastructure/gin_interface/dto"
	"short-video-agent/middleware"

	"github.com/gin-gonic/gin"
)

type VideoAgentController interface {
	GenerateVideo(c *gin.Context)
	Health(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type videoAgentController struct {
	logger               outbound.LoggerPort
	videoCreatorPipeline inbound.VideoCreatorPipelinePort
}

func NewVideoAgentController(
	logger outbound.LoggerPort,
	videoCreatorPipeline inbound.VideoCreatorPipelinePort,
) VideoAgentController {
	return &videoAgentController{
		logger:               logger,
		videoCreatorPipeline: videoCreatorPipeline,
	}
}

// GenerateVideo starts a run and streams its progress events until the
// terminal one. A client disconnect cancels the run.
func (s *videoAgentController) GenerateVideo(c *gin.Context) {
	var request dto.GenerateVideoRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		s.abortJSON(c, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, err := s.videoCreatorPipeline.StartPipeline(ctx, inbound.StartPipelineParams{
		UserID: c.GetString(middleware.ContextUserIDKey),
		Topic:  request.Topic,
	})
	if errors.Is(err, domain.ErrEmptyTopic) {
		s.abortJSON(c, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		s.logger.Error(err, "Failed to start pipeline")
		s.abortJSON(c, http.StatusServiceUnavailable, err)
		return
	}

	c.Status(http.StatusOK)
	for event := range events {
		if err := writeEvent(c.Writer, event); err != nil {
			s.logger.WarnWithFields("Client went away, cancelling run", map[string]interface{}{
				"error": err.Error(),
			})
			cancel()
			return
		}
	}
}

func (s *videoAgentController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

func (s *videoAgentController) RegisterRoutes(g *gin.Engine) {
	g.GET("/health", s.Health)

	agents := g.Group("/api/v1/agents")
	agents.Use(middleware.SSEMiddleware())
	agents.POST("", s.GenerateVideo)
}

func (s *videoAgentController) abortJSON(c *gin.Context, status int, err error) {
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: err.Error()})
}

func writeEvent(w gin.ResponseWriter, event domain.ProgressEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	w.Flush()
	return nil
}
