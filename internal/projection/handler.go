package projection

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	httperr "github.com/tally-lab/tally/internal/core/errors"
)

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/stats", s.HandleQueryStats)

	// Name used by existing dashboards.
	r.GET("/get-stats", s.HandleQueryStats)
}

// HandleQueryStats handles GET /v1/stats?site_id=...&date=YYYY-MM-DD
func (s *Service) HandleQueryStats(c *gin.Context) {
	var query StatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	body, err := s.QueryStatsBody(c.Request.Context(), query)
	if err != nil {
		if httperr.IsValidation(err) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
			return
		}

		slog.Error("[Projection] Stats query failed", "error", err, "site_id", query.SiteID, "date", query.Date)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{Error: rootMessage(err)})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// rootMessage surfaces the store's own message rather than our wrapping.
func rootMessage(err error) string {
	var storeErr *httperr.StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Error()
	}
	return err.Error()
}
