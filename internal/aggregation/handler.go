package aggregation

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	v1 "github.com/tally-lab/tally/internal/api/v1"
	httperr "github.com/tally-lab/tally/internal/core/errors"
)

// ProcessHandler handles POST /v1/process.
func (s *Service) ProcessHandler(c *gin.Context) {
	res, shared, err := s.Process(c.Request.Context())
	if err != nil {
		slog.Error("[BatchJob] On-demand pass failed", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.IngestErrorResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if res.Processed == 0 {
		c.JSON(http.StatusOK, v1.ProcessResponse{
			Success:   true,
			Processed: 0,
			Message:   v1.MsgQueueEmpty,
		})
		return
	}

	if shared {
		slog.Debug("[BatchJob] Returned result of a pass already in flight", "processed", res.Processed)
	}

	days := res.AggregatedDays
	c.JSON(http.StatusOK, v1.ProcessResponse{
		Success:        true,
		Processed:      res.Processed,
		AggregatedDays: &days,
	})
}

// QueueStatusHandler handles GET /v1/queue/status.
func (s *Service) QueueStatusHandler(c *gin.Context) {
	status, err := s.queue.QueueStatus(c.Request.Context())
	if err != nil {
		slog.Error("[BatchJob] Failed to read queue status", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}
