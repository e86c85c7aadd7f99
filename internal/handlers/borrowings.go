package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

type requestBorrowRequest struct {
	BookID uint    `json:"bookId" binding:"required"`
	Notes  *string `json:"notes"`
}

func (h *Handler) requestBorrow(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}
	var req requestBorrowRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	borrowing, err := h.borrowings.RequestBorrow(c.Request.Context(), userID, req.BookID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, borrowing)
}

func (h *Handler) listBorrowings(c *gin.Context) {
	page, limit := parsePagination(c)
	borrowings, total, err := h.borrowings.List(c.Request.Context(), repository.BorrowingFilter{
		UserID: parseQueryUint(c, "userId"),
		BookID: parseQueryUint(c, "bookId"),
		Status: models.BorrowingStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": borrowings, "meta": listMeta(total, page, limit)})
}

func (h *Handler) getBorrowing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	borrowing, err := h.borrowings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, borrowing)
}

func (h *Handler) approveBorrowing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	approverID, ok := requesterID(c)
	if !ok {
		return
	}
	borrowing, err := h.borrowings.Approve(c.Request.Context(), id, approverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, borrowing)
}

type rejectBorrowingRequest struct {
	Reason *string `json:"reason"`
}

func (h *Handler) rejectBorrowing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rejecterID, ok := requesterID(c)
	if !ok {
		return
	}
	var req rejectBorrowingRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	borrowing, err := h.borrowings.Reject(c.Request.Context(), id, rejecterID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, borrowing)
}

func (h *Handler) returnBorrowing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	returnerID, ok := requesterID(c)
	if !ok {
		return
	}
	borrowing, err := h.borrowings.Return(c.Request.Context(), id, returnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, borrowing)
}

func (h *Handler) renewBorrowing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	userID, ok := requesterID(c)
	if !ok {
		return
	}
	borrowing, err := h.borrowings.Renew(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, borrowing)
}

func (h *Handler) checkOverdue(c *gin.Context) {
	count, err := h.borrowings.SweepOverdue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
