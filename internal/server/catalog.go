package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	catalogdomain "github.com/studiolane/studiolane/internal/catalog/domain"
)

// registerItemRoutes mounts the CRUD surface for one catalog type. The handler
// bodies are identical across types, so they are closed over the typed service.
func registerItemRoutes[T any](r *gin.RouterGroup, path string, svc catalogdomain.ItemService[T]) {
	group := r.Group("/" + path)

	group.GET("", func(c *gin.Context) {
		orgID, ok := orgIDFromPath(c)
		if !ok {
			return
		}
		items, err := svc.List(c.Request.Context(), orgID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
	})

	group.POST("", func(c *gin.Context) {
		orgID, ok := orgIDFromPath(c)
		if !ok {
			return
		}
		var item T
		if err := c.ShouldBindJSON(&item); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		created, err := svc.Create(c.Request.Context(), orgID, &item)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, created)
	})

	group.GET("/:id", func(c *gin.Context) {
		orgID, id, ok := itemPathIDs(c)
		if !ok {
			return
		}
		item, err := svc.Get(c.Request.Context(), orgID, id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	})

	group.PATCH("/:id", func(c *gin.Context) {
		orgID, id, ok := itemPathIDs(c)
		if !ok {
			return
		}
		var item T
		if err := c.ShouldBindJSON(&item); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		updated, err := svc.Update(c.Request.Context(), orgID, id, &item)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	group.DELETE("/:id", func(c *gin.Context) {
		orgID, id, ok := itemPathIDs(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), orgID, id); err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	})
}

func orgIDFromPath(c *gin.Context) (snowflake.ID, bool) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(c.Param("orgId")))
	if err != nil {
		AbortWithError(c, newValidationError("orgId", "invalid_organization", "invalid organization id"))
		return 0, false
	}
	return orgID, true
}

func itemPathIDs(c *gin.Context) (snowflake.ID, snowflake.ID, bool) {
	orgID, ok := orgIDFromPath(c)
	if !ok {
		return 0, 0, false
	}
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid item id"))
		return 0, 0, false
	}
	return orgID, id, true
}
