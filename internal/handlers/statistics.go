package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kubev2v/restquery/internal/export"
)

const formatXLSX = "xlsx"

// Statistics returns grouped metrics of an entity, as JSON or as a workbook
// when format=xlsx
// (GET /:entity/statistics)
func (h *Handler) Statistics(c *gin.Context) {
	entity := c.Param("entity")
	result, err := h.statsSrv.Run(c.Request.Context(), entity, params(c))
	if err != nil {
		writeError(c, "statistics_handler", err)
		return
	}

	if result.TotalKnown {
		c.Header(TotalHeader, strconv.Itoa(result.Total))
	}

	if c.Query("format") != formatXLSX {
		c.JSON(http.StatusOK, result.Rows)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, entity, result); err != nil {
		writeError(c, "statistics_handler", fmt.Errorf("exporting statistics: %w", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-statistics.xlsx"`, entity))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
