package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

// handleDBError maps gorm errors onto repository sentinels
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrDuplicate)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int, allowed map[string]bool) *gorm.DB {
	// Validate and set sort column
	if sortBy == "" || !allowed[sortBy] {
		sortBy = "created_at"
	}

	// Validate and set sort order
	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)
	if sortBy != "id" {
		// stable pages when the sort column has ties
		query = query.Order("id " + sortOrder)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

var (
	courseSortColumns = map[string]bool{
		"created_at":       true,
		"updated_at":       true,
		"id":               true,
		"title":            true,
		"price":            true,
		"average_rating":   true,
		"enrollment_count": true,
		"published_at":     true,
	}
	userSortColumns = map[string]bool{
		"created_at": true,
		"name":       true,
		"email":      true,
	}
)

func applyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.EducatorID != "" {
		query = query.Where("educator_id = ?", filters.EducatorID)
	}
	if filters.Category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", filters.Category)
	}
	if filters.Level != nil {
		query = query.Where("level = ?", *filters.Level)
	}
	if filters.IDs != nil {
		query = query.Where("id IN ?", nonEmptyIDs(filters.IDs))
	}
	if filters.Search != "" {
		like := "%" + escapeLike(filters.Search) + "%"
		query = query.Where("(title ILIKE ? OR description ILIKE ?)", like, like)
	}
	if filters.MinRating != nil {
		query = query.Where("average_rating >= ?", *filters.MinRating)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	return query
}

// nonEmptyIDs keeps "id IN ?" valid when a search returned nothing
func nonEmptyIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{0}
	}
	return ids
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// regexAlternation builds a case-insensitive alternation for postgres "~*"
func regexAlternation(terms []string) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(t))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, "|") + ")"
}
