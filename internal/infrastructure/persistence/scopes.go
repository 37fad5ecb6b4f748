package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/openbooks/ledger/internal/domain/shared"
)

// paged applies offset/limit pagination from the filter
func paged(f shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page := f.Page
		if page < 1 {
			page = 1
		}
		pageSize := f.PageSize
		if pageSize < 1 {
			pageSize = 20
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// ordered applies the filter's ordering, restricted to the given columns.
// Unknown columns fall back to created_at to keep the clause injection-safe.
func ordered(f shared.Filter, allowed ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column := "created_at"
		for _, c := range allowed {
			if c == f.OrderBy {
				column = c
				break
			}
		}
		direction := "desc"
		if strings.EqualFold(f.OrderDir, "asc") {
			direction = "asc"
		}
		return db.Order(fmt.Sprintf("%s %s", column, direction))
	}
}

// searchPattern builds a case-insensitive LIKE pattern
func searchPattern(search string) string {
	return "%" + strings.ToLower(search) + "%"
}
