package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kanenguyen264-cyber/do-an/internal/service"
)

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) popularBooks(c *gin.Context) {
	limit := 10
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	books, err := h.analytics.PopularBooks(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *Handler) getSystemConfig(c *gin.Context) {
	cfg, err := h.configs.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type updateSystemConfigRequest struct {
	MaxBooksPerUser   *int   `json:"maxBooksPerUser"`
	DefaultBorrowDays *int   `json:"defaultBorrowDays"`
	MaxRenewalCount   *int   `json:"maxRenewalCount"`
	LateFeePerDay     *int64 `json:"lateFeePerDay"`
	ReservationDays   *int   `json:"reservationDays"`
}

func (h *Handler) updateSystemConfig(c *gin.Context) {
	var req updateSystemConfigRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg, err := h.configs.Update(c.Request.Context(), service.UpdateSystemConfigInput{
		MaxBooksPerUser:   req.MaxBooksPerUser,
		DefaultBorrowDays: req.DefaultBorrowDays,
		MaxRenewalCount:   req.MaxRenewalCount,
		LateFeePerDay:     req.LateFeePerDay,
		ReservationDays:   req.ReservationDays,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
