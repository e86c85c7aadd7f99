package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

func (h *Handler) listFines(c *gin.Context) {
	page, limit := parsePagination(c)
	fines, total, err := h.fines.List(c.Request.Context(), repository.FineFilter{
		UserID: parseQueryUint(c, "userId"),
		Status: models.FineStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fines, "meta": listMeta(total, page, limit)})
}

func (h *Handler) getFine(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fine, err := h.fines.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fine)
}

func (h *Handler) unpaidFineTotal(c *gin.Context) {
	userID := parseQueryUint(c, "userId")
	if userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter is required"})
		return
	}
	total, err := h.fines.UnpaidTotal(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "total": total})
}

func (h *Handler) payFine(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fine, err := h.fines.Pay(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fine)
}

type waiveFineRequest struct {
	Notes *string `json:"notes"`
}

func (h *Handler) waiveFine(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req waiveFineRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	fine, err := h.fines.Waive(c.Request.Context(), id, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fine)
}
