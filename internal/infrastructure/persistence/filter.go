package persistence

import (
	"regexp"
	"strings"

	"github.com/fabworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortColumnPattern restricts order-by input to plain column names so filter
// values can never smuggle SQL into the ORDER BY clause.
var sortColumnPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// applyFilter applies pagination and ordering from a shared.Filter. The
// defaultOrder is used when the filter names no column or names an invalid one.
func applyFilter(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	if filter.OrderBy != "" && sortColumnPattern.MatchString(filter.OrderBy) {
		dir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	} else if defaultOrder != "" {
		query = query.Order(defaultOrder)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}
