package httpapi

import (
	"net/http"

	"storemart-be/internal/metrics"

	"github.com/gin-gonic/gin"
)

func (s *Server) adminSummary(c *gin.Context) {
	sum, err := s.dashboard.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) adminMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Snapshot())
}
