package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kanenguyen264-cyber/do-an/internal/log"
	"github.com/kanenguyen264-cyber/do-an/internal/service"
)

type Handler struct {
	catalog       *service.CatalogService
	membership    *service.MembershipService
	borrowings    *service.BorrowingService
	reservations  *service.ReservationService
	fines         *service.FineService
	notifications *service.NotificationService
	analytics     *service.AnalyticsService
	configs       *service.SystemConfigService
}

func New(
	catalog *service.CatalogService,
	membership *service.MembershipService,
	borrowings *service.BorrowingService,
	reservations *service.ReservationService,
	fines *service.FineService,
	notifications *service.NotificationService,
	analytics *service.AnalyticsService,
	configs *service.SystemConfigService,
) *Handler {
	return &Handler{
		catalog:       catalog,
		membership:    membership,
		borrowings:    borrowings,
		reservations:  reservations,
		fines:         fines,
		notifications: notifications,
		analytics:     analytics,
		configs:       configs,
	}
}

// RequestLogger attaches a request-scoped logrus entry to the context so
// services pick it up via log.GetLogger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := logrus.WithFields(logrus.Fields{
			"request_id": uuid.New().String(),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		ctx := log.NewContext(c.Request.Context(), entry)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/books", h.listBooks)
	r.POST("/books", h.createBook)
	r.GET("/books/:id", h.getBook)
	r.PUT("/books/:id", h.updateBook)
	r.DELETE("/books/:id", h.deleteBook)

	r.GET("/authors", h.listAuthors)
	r.POST("/authors", h.createAuthor)
	r.GET("/publishers", h.listPublishers)
	r.POST("/publishers", h.createPublisher)
	r.GET("/categories", h.listCategories)
	r.POST("/categories", h.createCategory)

	r.GET("/users", h.listUsers)
	r.POST("/users", h.createUser)
	r.GET("/users/:id", h.getUser)
	r.PUT("/users/:id", h.updateUser)

	r.POST("/borrowings", h.requestBorrow)
	r.GET("/borrowings", h.listBorrowings)
	r.GET("/borrowings/:id", h.getBorrowing)
	r.PATCH("/borrowings/:id/approve", h.approveBorrowing)
	r.PATCH("/borrowings/:id/reject", h.rejectBorrowing)
	r.PATCH("/borrowings/:id/return", h.returnBorrowing)
	r.PATCH("/borrowings/:id/renew", h.renewBorrowing)
	r.POST("/borrowings/check-overdue", h.checkOverdue)

	r.POST("/reservations", h.createReservation)
	r.GET("/reservations", h.listReservations)
	r.GET("/reservations/:id", h.getReservation)
	r.PATCH("/reservations/:id/cancel", h.cancelReservation)
	r.PATCH("/reservations/:id/ready", h.markReservationReady)
	r.PATCH("/reservations/:id/fulfill", h.fulfillReservation)
	r.POST("/reservations/check-expired", h.checkExpiredReservations)

	r.GET("/fines", h.listFines)
	r.GET("/fines/unpaid-total", h.unpaidFineTotal)
	r.GET("/fines/:id", h.getFine)
	r.PATCH("/fines/:id/pay", h.payFine)
	r.PATCH("/fines/:id/waive", h.waiveFine)

	r.GET("/notifications", h.listNotifications)
	r.GET("/notifications/unread-count", h.unreadNotificationCount)
	r.PATCH("/notifications/:id/read", h.markNotificationRead)
	r.POST("/notifications/read-all", h.markAllNotificationsRead)

	r.GET("/analytics/dashboard", h.dashboard)
	r.GET("/analytics/popular-books", h.popularBooks)

	r.GET("/system-config", h.getSystemConfig)
	r.PUT("/system-config", h.updateSystemConfig)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// requesterID reads the caller identity. Authentication mechanics live in a
// gateway in front of this service; handlers only need the id to enforce
// ownership.
func requesterID(c *gin.Context) (uint, bool) {
	raw := c.GetHeader("X-User-ID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid X-User-ID header"})
		return 0, false
	}
	return uint(id), true
}

func parseQueryUint(c *gin.Context, key string) uint {
	v, err := strconv.ParseUint(c.Query(key), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

func parsePagination(c *gin.Context) (int, int) {
	page := 1
	limit := 10
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	return page, limit
}

func listMeta(total int64, page, limit int) gin.H {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return gin.H{"total": total, "page": page, "limit": limit, "totalPages": totalPages}
}
