package utils

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"adoption-server/internal/schemas"
)

// ParsePaginationParams reads offset and limit from the query parameters,
// falling back to 0 and 10 when absent.
func ParsePaginationParams(ctx *gin.Context) (int, int, error) {
	offsetString := ctx.DefaultQuery(OffsetParamKey, "0")
	offset, err := strconv.Atoi(offsetString)
	if err != nil || offset < 0 {
		return 0, 0, errors.New("offset invalid")
	}

	limitString := ctx.DefaultQuery(LimitParamKey, "10")
	limit, err := strconv.Atoi(limitString)
	if err != nil || limit < 0 {
		return 0, 0, errors.New("limit invalid")
	}

	return offset, limit, nil
}

// PaginateSlice returns the subset of records selected by offset and limit.
func PaginateSlice[T any](records []T, offset, limit int) []T {
	if offset > len(records) {
		return []T{}
	}

	end := offset + limit
	if end > len(records) {
		end = len(records)
	}

	return records[offset:end]
}

// SendPaginatedResponse writes the given subset of records together with the
// pagination metadata.
func SendPaginatedResponse(ctx *gin.Context, records interface{}, offset, limit, totalRecords int) {
	paginatedResponse := &schemas.PaginatedResponse{
		Records: records,
		Pagination: schemas.Pagination{
			Offset:  offset,
			Limit:   limit,
			Records: totalRecords,
		},
	}

	WriteAndLogResponse(ctx, paginatedResponse, http.StatusOK)
}
