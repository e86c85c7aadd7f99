package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/service"
)

type createUserRequest struct {
	FullName string          `json:"fullName" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Phone    string          `json:"phone"`
	Role     models.UserRole `json:"role"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.membership.Create(c.Request.Context(), service.CreateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.membership.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) listUsers(c *gin.Context) {
	page, limit := parsePagination(c)
	users, total, err := h.membership.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users, "meta": listMeta(total, page, limit)})
}

type updateUserRequest struct {
	FullName    *string            `json:"fullName"`
	Phone       *string            `json:"phone"`
	Role        *models.UserRole   `json:"role"`
	Status      *models.UserStatus `json:"status"`
	BorrowLimit *int               `json:"borrowLimit"`
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.membership.Update(c.Request.Context(), id, service.UpdateUserInput{
		FullName:    req.FullName,
		Phone:       req.Phone,
		Role:        req.Role,
		Status:      req.Status,
		BorrowLimit: req.BorrowLimit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
