package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kanenguyen264-cyber/do-an/internal/config"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
	"github.com/kanenguyen264-cyber/do-an/internal/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := repository.Open(config.DatabaseConfig{Driver: "sqlite", Path: dsn})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	bookRepo := repository.NewBookRepo(db)
	authorRepo := repository.NewAuthorRepo(db)
	publisherRepo := repository.NewPublisherRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	userRepo := repository.NewUserRepo(db)
	borrowingRepo := repository.NewBorrowingRepo(db)
	fineRepo := repository.NewFineRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	configRepo := repository.NewSystemConfigRepo(db)
	activityRepo := repository.NewActivityLogRepo(db)

	notifier := service.NewNotificationService(notificationRepo, nil)
	handler := New(
		service.NewCatalogService(bookRepo, authorRepo, publisherRepo, categoryRepo),
		service.NewMembershipService(userRepo, borrowingRepo),
		service.NewBorrowingService(db, borrowingRepo, bookRepo, userRepo, fineRepo, reservationRepo, configRepo, activityRepo, notifier),
		service.NewReservationService(db, reservationRepo, bookRepo, userRepo, configRepo, notifier),
		service.NewFineService(fineRepo, notifier),
		notifier,
		service.NewAnalyticsService(bookRepo, userRepo, borrowingRepo),
		service.NewSystemConfigService(configRepo),
	)

	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any, userID uint) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set("X-User-ID", strconv.FormatUint(uint64(userID), 10))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createUserHTTP(t *testing.T, router *gin.Engine, name string) uint {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/users", gin.H{
		"fullName": name,
		"email":    name + "@example.com",
	}, 0)
	require.Equal(t, http.StatusCreated, w.Code)
	return uint(decode(t, w)["id"].(float64))
}

func createBookHTTP(t *testing.T, router *gin.Engine, title string, copies int) uint {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/books", gin.H{
		"title":       title,
		"isbn":        "isbn-" + title,
		"totalCopies": copies,
	}, 0)
	require.Equal(t, http.StatusCreated, w.Code)
	return uint(decode(t, w)["id"].(float64))
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(t, router, http.MethodGet, "/health", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", decode(t, w)["status"])
}

func TestBookCRUD(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/books", gin.H{
		"title":       "Clean Architecture",
		"isbn":        "978-0134494166",
		"totalCopies": 3,
	}, 0)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	id := uint(body["id"].(float64))
	require.Equal(t, float64(3), body["availableCopies"])

	// Missing totalCopies fails validation.
	w = doRequest(t, router, http.MethodPost, "/books", gin.H{
		"title": "No copies",
		"isbn":  "none",
	}, 0)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/books/%d", id), nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Clean Architecture", decode(t, w)["title"])

	newTitle := "Clean Architecture, 2nd printing"
	w = doRequest(t, router, http.MethodPut, fmt.Sprintf("/books/%d", id), gin.H{"title": newTitle}, 0)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, newTitle, decode(t, w)["title"])

	w = doRequest(t, router, http.MethodGet, "/books", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	require.Len(t, list["data"], 1)
	meta := list["meta"].(map[string]any)
	require.Equal(t, float64(1), meta["total"])
	require.Equal(t, float64(1), meta["page"])

	w = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil, 0)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/books/%d", id), nil, 0)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBorrowingFlowHTTP(t *testing.T) {
	router := setupRouter(t)
	reader := createUserHTTP(t, router, "reader")
	librarian := createUserHTTP(t, router, "librarian")
	book := createBookHTTP(t, router, "Borrowed over HTTP", 1)

	// The borrow request needs a caller identity.
	w := doRequest(t, router, http.MethodPost, "/borrowings", gin.H{"bookId": book}, 0)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/borrowings", gin.H{"bookId": book}, reader)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	borrowingID := uint(body["id"].(float64))
	require.Equal(t, "PENDING", body["status"])

	// A duplicate active request conflicts.
	w = doRequest(t, router, http.MethodPost, "/borrowings", gin.H{"bookId": book}, reader)
	require.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/borrowings/%d/approve", borrowingID), nil, librarian)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "BORROWED", decode(t, w)["status"])

	// Approving twice conflicts.
	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/borrowings/%d/approve", borrowingID), nil, librarian)
	require.Equal(t, http.StatusConflict, w.Code)

	// Only the owner may renew.
	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/borrowings/%d/renew", borrowingID), nil, librarian)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/borrowings/%d/renew", borrowingID), nil, reader)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), decode(t, w)["renewalCount"])

	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/borrowings/%d/return", borrowingID), nil, librarian)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "RETURNED", decode(t, w)["status"])

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/books/%d", book), nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), decode(t, w)["availableCopies"])

	// The reader ends up with a notification trail.
	w = doRequest(t, router, http.MethodGet, "/notifications", nil, reader)
	require.Equal(t, http.StatusOK, w.Code)
	var notifications []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifications))
	require.NotEmpty(t, notifications)

	w = doRequest(t, router, http.MethodGet, "/notifications/unread-count", nil, reader)
	require.Equal(t, http.StatusOK, w.Code)
	require.Greater(t, decode(t, w)["count"].(float64), float64(0))

	w = doRequest(t, router, http.MethodPost, "/notifications/read-all", nil, reader)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(t, router, http.MethodGet, "/notifications/unread-count", nil, reader)
	require.Equal(t, float64(0), decode(t, w)["count"])
}

func TestRejectFlowHTTP(t *testing.T) {
	router := setupRouter(t)
	reader := createUserHTTP(t, router, "rejected-reader")
	librarian := createUserHTTP(t, router, "strict-librarian")
	book := createBookHTTP(t, router, "Not today", 1)

	w := doRequest(t, router, http.MethodPost, "/borrowings", gin.H{"bookId": book}, reader)
	require.Equal(t, http.StatusCreated, w.Code)
	borrowingID := uint(decode(t, w)["id"].(float64))

	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/borrowings/%d/reject", borrowingID),
		gin.H{"reason": "card expired"}, librarian)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, "REJECTED", body["status"])
	require.Equal(t, "card expired", body["notes"])

	// Inventory untouched.
	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/books/%d", book), nil, 0)
	require.Equal(t, float64(1), decode(t, w)["availableCopies"])
}

func TestReservationFlowHTTP(t *testing.T) {
	router := setupRouter(t)
	holder := createUserHTTP(t, router, "holder")
	waiter := createUserHTTP(t, router, "waiter")
	librarian := createUserHTTP(t, router, "desk")
	book := createBookHTTP(t, router, "One copy only", 1)

	w := doRequest(t, router, http.MethodPost, "/borrowings", gin.H{"bookId": book}, holder)
	require.Equal(t, http.StatusCreated, w.Code)
	borrowingID := uint(decode(t, w)["id"].(float64))
	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/borrowings/%d/approve", borrowingID), nil, librarian)
	require.Equal(t, http.StatusOK, w.Code)

	// No copies left, so a second borrow request conflicts.
	w = doRequest(t, router, http.MethodPost, "/borrowings", gin.H{"bookId": book}, waiter)
	require.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, router, http.MethodPost, "/reservations", gin.H{"bookId": book}, waiter)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	reservationID := uint(body["id"].(float64))
	require.Equal(t, float64(1), body["queuePosition"])

	// Duplicate pending reservation conflicts.
	w = doRequest(t, router, http.MethodPost, "/reservations", gin.H{"bookId": book}, waiter)
	require.Equal(t, http.StatusConflict, w.Code)

	// Returning the copy promotes the queue head.
	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/borrowings/%d/return", borrowingID), nil, librarian)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/reservations/%d", reservationID), nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "READY", decode(t, w)["status"])

	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/reservations/%d/fulfill", reservationID), nil, librarian)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "FULFILLED", decode(t, w)["status"])

	// Cancelling a FULFILLED reservation conflicts.
	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/reservations/%d/cancel", reservationID), nil, waiter)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestSystemConfigHTTP(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/system-config", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, float64(5), body["maxBooksPerUser"])
	require.Equal(t, float64(14), body["defaultBorrowDays"])
	require.Equal(t, float64(5000), body["lateFeePerDay"])

	w = doRequest(t, router, http.MethodPut, "/system-config", gin.H{"maxBooksPerUser": 3}, 0)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(3), decode(t, w)["maxBooksPerUser"])

	// Out-of-range values are rejected.
	w = doRequest(t, router, http.MethodPut, "/system-config", gin.H{"maxBooksPerUser": 0}, 0)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsHTTP(t *testing.T) {
	router := setupRouter(t)
	reader := createUserHTTP(t, router, "stats-reader")
	librarian := createUserHTTP(t, router, "stats-librarian")
	book := createBookHTTP(t, router, "Counted", 2)

	w := doRequest(t, router, http.MethodPost, "/borrowings", gin.H{"bookId": book}, reader)
	require.Equal(t, http.StatusCreated, w.Code)
	borrowingID := uint(decode(t, w)["id"].(float64))
	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/borrowings/%d/approve", borrowingID), nil, librarian)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/analytics/dashboard", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	require.Equal(t, float64(1), stats["totalBooks"])
	require.Equal(t, float64(2), stats["totalUsers"])
	require.Equal(t, float64(1), stats["activeBorrowings"])

	w = doRequest(t, router, http.MethodGet, "/analytics/popular-books", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	var popular []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &popular))
	require.Len(t, popular, 1)
	require.Equal(t, float64(1), popular[0]["borrowCount"])
}

func TestErrorMappingHTTP(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/books/9999", nil, 0)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodGet, "/books/abc", nil, 0)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPatch, "/borrowings/9999/approve", nil, 1)
	require.Equal(t, http.StatusNotFound, w.Code)
}
