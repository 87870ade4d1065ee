package aggregation

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/tally-lab/tally/internal/core/storage"
	"golang.org/x/sync/singleflight"
)

const processFlightKey = "process"

// Service exposes on-demand passes and the queue backlog over HTTP.
type Service struct {
	job    Runner
	queue  storage.QueueStore
	flight singleflight.Group
}

func NewService(job Runner, queue storage.QueueStore) *Service {
	return &Service{job: job, queue: queue}
}

// RegisterRoutes registers the aggregation service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/process", s.ProcessHandler)
	r.GET("/v1/queue/status", s.QueueStatusHandler)

	// Name used by existing cron triggers.
	r.POST("/process-events", s.ProcessHandler)
}

// Process runs one pass. Concurrent callers share the pass already running.
// The pass is detached from ctx cancellation so an abandoned request does not
// fail it for the callers sharing it.
func (s *Service) Process(ctx context.Context) (Result, bool, error) {
	v, err, shared := s.flight.Do(processFlightKey, func() (interface{}, error) {
		return s.job.RunBatch(context.WithoutCancel(ctx))
	})
	if err != nil {
		return Result{}, shared, err
	}
	return v.(Result), shared, nil
}
