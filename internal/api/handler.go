package api

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/top20pulse/internal/domain/dto"
	"github.com/guttosm/top20pulse/internal/service"
)

// Handler exposes the snapshot pipeline over HTTP.
type Handler struct {
	svc service.SnapshotService
}

// NewHandler constructs a Handler around the pipeline service.
func NewHandler(svc service.SnapshotService) *Handler {
	return &Handler{svc: svc}
}

// Run handles GET / by executing one pipeline run with the request context.
//
// The HTTP status is the run's status code: 200 when the run was skipped, had
// nothing to load or fully succeeded, 701 when the exchange was unreachable
// or its format changed, and 601 when the warehouse write failed.
//
// Run godoc
// @Summary      Fetch and store today's top-20 stocks
// @Description  Fetches the TWSE daily top-20 report, transforms it and appends it to the warehouse
// @Tags         snapshot
// @Produce      json
// @Success      200  {object}  dto.RunResponse  "Skipped, no new data, or loaded"
// @Failure      601  {object}  dto.RunResponse  "Warehouse write failed"
// @Failure      701  {object}  dto.RunResponse  "Exchange unreachable or format changed"
// @Router       / [get]
func (h *Handler) Run(c *gin.Context) {
	res := h.svc.Run(c.Request.Context())
	c.JSON(res.StatusCode, dto.RunResponse{
		AccessStockData: res.AccessStockData,
		LoadDataToBQ:    res.LoadDataToBQ,
	})
}
