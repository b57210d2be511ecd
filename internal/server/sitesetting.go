package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	sitesettingdomain "github.com/studiolane/studiolane/internal/sitesetting/domain"
)

func (s *Server) GetSiteSettings(c *gin.Context) {
	orgID, ok := orgIDFromPath(c)
	if !ok {
		return
	}

	setting, err := s.siteSettingSvc.Get(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}

func (s *Server) UpdateSiteSettings(c *gin.Context) {
	orgID, ok := orgIDFromPath(c)
	if !ok {
		return
	}

	var req sitesettingdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	setting, err := s.siteSettingSvc.Update(c.Request.Context(), orgID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}
