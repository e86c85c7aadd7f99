package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listNotifications(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}
	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.notifications.List(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) unreadNotificationCount(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}
	count, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	notification, err := h.notifications.MarkRead(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}
	if err := h.notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
