package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/domain"
)

// translate maps storage errors onto the business error kinds so callers
// never have to import gorm to classify a failure.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func paginate(q *gorm.DB, page, limit int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return q.Offset((page - 1) * limit).Limit(limit)
}
