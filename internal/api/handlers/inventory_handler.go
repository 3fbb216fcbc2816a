package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/report"
)

// InventoryService is the part of the service layer the handler needs
type InventoryService interface {
	Optimize(ctx context.Context, restaurantID, itemID string) (inventory.ItemAnalysis, error)
	Recommend(ctx context.Context, restaurantID, itemID string) (domain.Recommendation, error)
	BatchReport(ctx context.Context, restaurantID string) (*report.BatchReport, bool, error)
	BatchRecommend(ctx context.Context, restaurantID string, itemIDs []string) (*report.BatchReport, error)
	InvalidateReports(ctx context.Context, restaurantID string) error
}

type InventoryHandler struct {
	service InventoryService
}

func NewInventoryHandler(service InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type batchRecommendRequest struct {
	ItemIDs []string `json:"item_ids"`
}

type batchRecommendations struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	Errors          []report.ItemError      `json:"errors"`
	Warnings        []report.ItemError      `json:"warnings"`
	BatchSize       int                     `json:"batch_size"`
	CriticalCount   int                     `json:"critical_count"`
	HighCount       int                     `json:"high_count"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

func (h *InventoryHandler) GetRecommendation(c *gin.Context) {
	start := time.Now()
	rec, err := h.service.Recommend(c.Request.Context(), c.Param("restaurant_id"), c.Param("item_id"))
	if err != nil {
		writeError(c, "failed to build recommendation", err)
		return
	}
	respond(c, start, rec, nil)
}

func (h *InventoryHandler) GetOptimization(c *gin.Context) {
	start := time.Now()
	analysis, err := h.service.Optimize(c.Request.Context(), c.Param("restaurant_id"), c.Param("item_id"))
	if err != nil {
		writeError(c, "failed to optimize item", err)
		return
	}
	respond(c, start, analysis, nil)
}

func (h *InventoryHandler) BatchRecommendations(c *gin.Context) {
	start := time.Now()

	var req batchRecommendRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body", "details": err.Error()})
			return
		}
	}

	itemIDs := make([]string, 0, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		if id = strings.TrimSpace(id); id != "" {
			itemIDs = append(itemIDs, id)
		}
	}

	r, err := h.service.BatchRecommend(c.Request.Context(), c.Param("restaurant_id"), itemIDs)
	if err != nil {
		writeError(c, "failed to build batch recommendations", err)
		return
	}

	respond(c, start, batchRecommendations{
		Recommendations: r.Recommendations,
		Errors:          r.Errors,
		Warnings:        r.Warnings,
		BatchSize:       r.BatchSize,
		CriticalCount:   r.CriticalCount,
		HighCount:       r.HighCount,
		GeneratedAt:     r.GeneratedAt,
	}, nil)
}

func (h *InventoryHandler) GetReorderSummary(c *gin.Context) {
	h.reportSection(c, func(r *report.BatchReport) interface{} { return r.ReorderSummary })
}

func (h *InventoryHandler) GetStatusReport(c *gin.Context) {
	h.reportSection(c, func(r *report.BatchReport) interface{} { return r.StatusReport })
}

func (h *InventoryHandler) GetCostAnalysis(c *gin.Context) {
	h.reportSection(c, func(r *report.BatchReport) interface{} { return r.CostAnalysis })
}

func (h *InventoryHandler) GetWasteInsights(c *gin.Context) {
	h.reportSection(c, func(r *report.BatchReport) interface{} { return r.WasteInsights })
}

func (h *InventoryHandler) InvalidateReports(c *gin.Context) {
	if err := h.service.InvalidateReports(c.Request.Context(), c.Param("restaurant_id")); err != nil {
		writeError(c, "failed to invalidate reports", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// reportSection serves one section of the cached batch report; skipped items
// are listed in the metadata.
func (h *InventoryHandler) reportSection(c *gin.Context, section func(*report.BatchReport) interface{}) {
	start := time.Now()
	r, cached, err := h.service.BatchReport(c.Request.Context(), c.Param("restaurant_id"))
	if err != nil {
		writeError(c, "failed to build inventory report", err)
		return
	}

	respond(c, start, section(r), gin.H{
		"cached":       cached,
		"report_as_of": r.GeneratedAt,
		"errors":       r.Errors,
		"warnings":     r.Warnings,
	})
}

func respond(c *gin.Context, start time.Time, data interface{}, extra gin.H) {
	metadata := gin.H{
		"generated_at": time.Now().UTC(),
		"duration_ms":  time.Since(start).Milliseconds(),
	}
	for k, v := range extra {
		metadata[k] = v
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     data,
		"metadata": metadata,
	})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientData), errors.Is(err, domain.ErrInvalidItem):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
		"kind":    domain.ErrorKind(err),
		"details": err.Error(),
	})
}
