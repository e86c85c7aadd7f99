package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kanenguyen264-cyber/do-an/internal/domain"
	"github.com/kanenguyen264-cyber/do-an/internal/log"
)

// respondError maps business error kinds onto HTTP status codes. Anything
// unrecognized is a 500 and gets logged; the error text is business-facing
// and safe to return either way.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrLimitExceeded),
		errors.Is(err, domain.ErrBookUnavailable),
		errors.Is(err, domain.ErrUserSuspended),
		errors.Is(err, domain.ErrDuplicateRequest),
		errors.Is(err, domain.ErrDuplicatePending),
		errors.Is(err, domain.ErrAlreadyOverdue),
		errors.Is(err, domain.ErrRenewalLimitExceeded):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.GetLogger(c.Request.Context()).WithError(err).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
