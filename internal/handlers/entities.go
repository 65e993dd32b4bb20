package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// List returns the rows of an entity
// (GET /:entity)
func (h *Handler) List(c *gin.Context) {
	result, err := h.listSrv.List(c.Request.Context(), c.Param("entity"), params(c))
	if err != nil {
		writeError(c, "list_handler", err)
		return
	}

	if result.TotalKnown {
		c.Header(TotalHeader, strconv.Itoa(result.Total))
	}
	c.JSON(http.StatusOK, result.Items)
}

// Get returns one row of an entity
// (GET /:entity/:id)
func (h *Handler) Get(c *gin.Context) {
	row, err := h.listSrv.Get(c.Request.Context(), c.Param("entity"), c.Param("id"), params(c))
	if err != nil {
		writeError(c, "detail_handler", err)
		return
	}
	c.JSON(http.StatusOK, row)
}
