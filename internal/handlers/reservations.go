package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

type createReservationRequest struct {
	BookID uint `json:"bookId" binding:"required"`
}

func (h *Handler) createReservation(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}
	var req createReservationRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reservation, err := h.reservations.Reserve(c.Request.Context(), userID, req.BookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

func (h *Handler) listReservations(c *gin.Context) {
	page, limit := parsePagination(c)
	reservations, total, err := h.reservations.List(c.Request.Context(), repository.ReservationFilter{
		UserID: parseQueryUint(c, "userId"),
		BookID: parseQueryUint(c, "bookId"),
		Status: models.ReservationStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reservations, "meta": listMeta(total, page, limit)})
}

func (h *Handler) getReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	reservation, err := h.reservations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *Handler) cancelReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	userID, ok := requesterID(c)
	if !ok {
		return
	}
	reservation, err := h.reservations.Cancel(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *Handler) markReservationReady(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	reservation, err := h.reservations.MarkReady(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *Handler) fulfillReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	reservation, err := h.reservations.Fulfill(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *Handler) checkExpiredReservations(c *gin.Context) {
	count, err := h.reservations.SweepExpired(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
