package ingestion

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	v1 "github.com/tally-lab/tally/internal/api/v1"
	httperr "github.com/tally-lab/tally/internal/core/errors"
	"github.com/tally-lab/tally/internal/metrics"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid request format"
	msgBodyTooLarge   = "Request body exceeds maximum allowed size"
)

// ingestionError carries status, message and metric reason from a helper
// back to the handler. Helpers never write to gin.Context directly.
type ingestionError struct {
	statusCode int
	reason     string
	message    string
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestAccepted is the 202 body of the ingestion endpoint.
type IngestAccepted struct {
	Success        bool    `json:"success"`
	Queued         bool    `json:"queued"`
	ResponseTimeMS float64 `json:"response_time_ms"`
}

// IngestHandler validates one event, schedules its queue insert in the
// background and answers 202 without waiting for the insert.
func (s *Service) IngestHandler(c *gin.Context) {
	start := time.Now()

	req, ierr := s.parseRequest(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	entry, err := req.ToQueueEntry(s.newID(), s.now())
	if err != nil {
		slog.Warn("[Ingestion] Validation failed", "error", err, "site_id", req.SiteID)
		writeError(c, &ingestionError{
			statusCode: http.StatusBadRequest,
			reason:     "validation",
			message:    err.Error(),
		})
		return
	}

	s.enqueuer.Dispatch(c.Request.Context(), entry)
	metrics.IngestAccepted.Inc()

	slog.Debug("[Ingestion] Accepted event",
		"event_id", entry.ID,
		"site_id", entry.SiteID,
		"event_type", entry.EventType)

	c.JSON(http.StatusAccepted, IngestAccepted{
		Success:        true,
		Queued:         true,
		ResponseTimeMS: elapsedMillis(start),
	})
}

// parseRequest reads the size-limited body and binds it.
func (s *Service) parseRequest(c *gin.Context) (*v1.IngestRequest, *ingestionError) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return nil, &ingestionError{
			statusCode: http.StatusInternalServerError,
			reason:     "read_body",
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			reason:     "too_large",
			message:    msgBodyTooLarge,
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var req v1.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("[Ingestion] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			reason:     "invalid_json",
			message:    msgInvalidJSON,
		}
	}
	return &req, nil
}

// elapsedMillis is the time since start in milliseconds, rounded to two decimals.
func elapsedMillis(start time.Time) float64 {
	ms := decimal.NewFromInt(time.Since(start).Nanoseconds()).Div(decimal.NewFromInt(int64(time.Millisecond)))
	return ms.Round(2).InexactFloat64()
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	metrics.IngestRejected.WithLabelValues(err.reason).Inc()
	c.JSON(err.statusCode, httperr.IngestErrorResponse{
		Success: false,
		Error:   err.message,
	})
}
