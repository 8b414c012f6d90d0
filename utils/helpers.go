package utils

import (
	"strconv"

	"github.com/google/uuid"
)

func GenerateUUID() string {
	return uuid.New().String()
}

// ParsePagination clamps page/limit query values to sane bounds.
func ParsePagination(pageStr, limitStr string) (page, limit int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(limitStr)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
