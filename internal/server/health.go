package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /health. It reports the store as reachable only when a
// trivial query succeeds.
func (s *Server) Health(c *gin.Context) {
	if !s.rideSvc.Healthy(c.Request.Context()) {
		c.JSON(http.StatusInternalServerError, healthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}
