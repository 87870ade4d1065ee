package ingestion

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	v1 "github.com/tally-lab/tally/internal/api/v1"
)

// Enqueuer hands a queue entry to background work without waiting on it.
type Enqueuer interface {
	Dispatch(ctx context.Context, entry *v1.QueueEntry)
}

type Service struct {
	enqueuer         Enqueuer
	maxBodySizeBytes int
	newID            func() string
	now              func() time.Time
}

func NewService(enqueuer Enqueuer, maxBodySizeMB int) *Service {
	if enqueuer == nil {
		panic("ingestion: enqueuer must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		enqueuer:         enqueuer,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
		newID:            uuid.NewString,
		now:              time.Now,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/events", s.IngestHandler)

	// Name used by existing tracking snippets.
	r.POST("/ingest-event", s.IngestHandler)
}
