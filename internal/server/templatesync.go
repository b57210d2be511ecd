package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RunTemplateSync executes a full reconciliation pass and returns the report.
// Partial runs report success=false with per-tenant error strings; only a
// failure before any tenant is processed maps to an error status.
func (s *Server) RunTemplateSync(c *gin.Context) {
	report, err := s.templateSyncSvc.Run(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
