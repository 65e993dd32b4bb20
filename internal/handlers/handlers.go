package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kubev2v/restquery/internal/models"
	"github.com/kubev2v/restquery/internal/services"
	srvErrors "github.com/kubev2v/restquery/pkg/errors"
	"github.com/kubev2v/restquery/pkg/query"
)

// TotalHeader carries the number of rows or groups across all pages.
const TotalHeader = "X-Content-Record-Total"

type ListService interface {
	List(ctx context.Context, entity string, params query.Params) (*models.ListResult, error)
	Get(ctx context.Context, entity, id string, params query.Params) (models.Row, error)
}

type StatisticsService interface {
	Run(ctx context.Context, entity string, params query.Params, opts ...services.StatsOption) (*models.AggregateResult, error)
}

type Handler struct {
	entities []string
	listSrv  ListService
	statsSrv StatisticsService
}

func New(entities []string, listSrv ListService, statsSrv StatisticsService) *Handler {
	return &Handler{
		entities: entities,
		listSrv:  listSrv,
		statsSrv: statsSrv,
	}
}

// RegisterRoutes registers every endpoint on router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/entities", h.GetEntities)
	router.GET("/:entity", h.List)
	router.GET("/:entity/statistics", h.Statistics)
	router.GET("/:entity/:id", h.Get)
}

// GetEntities returns the declared entity names
// (GET /entities)
func (h *Handler) GetEntities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entities": h.entities})
}

func params(c *gin.Context) query.Params {
	return query.FromValues(c.Request.URL.Query())
}

func writeError(c *gin.Context, logger string, err error) {
	switch {
	case query.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case srvErrors.IsEntityNotFoundError(err), srvErrors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		zap.S().Named(logger).Errorw("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
