package persistence

import (
	"fmt"
	"strings"

	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// allowedOrderColumns guards against SQL injection through OrderBy
var allowedOrderColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"name":       true,
	"sku":        true,
	"status":     true,
	"total":      true,
	"opened_at":  true,
}

// applyFilter applies pagination, ordering and exact-match filters
func applyFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		if allowedOrderColumns[key] || key == "user_id" || key == "is_credit" || key == "active" {
			db = db.Where(fmt.Sprintf("%s = ?", key), value)
		}
	}

	orderBy := filter.OrderBy
	if !allowedOrderColumns[orderBy] {
		orderBy = "created_at"
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	db = db.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		db = db.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return db
}

// applyCountFilter applies only the filter conditions, for Count queries
func applyCountFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		if allowedOrderColumns[key] || key == "user_id" || key == "is_credit" || key == "active" {
			db = db.Where(fmt.Sprintf("%s = ?", key), value)
		}
	}
	return db
}
