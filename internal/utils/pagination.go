// internal/utils/pagination.go
package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

var ErrInvalidPagination = errors.New("invalid pagination parameters")

// ListParams is offset pagination as exposed on list endpoints.
type ListParams struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

func (p ListParams) Validate() error {
	if p.Skip < 0 || p.Limit < 1 || p.Limit > MaxListLimit {
		return ErrInvalidPagination
	}
	return nil
}

// Apply adds OFFSET and LIMIT to the query.
func (p ListParams) Apply(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Skip).Limit(p.Limit)
}

// GetListParams reads skip and limit from the query string. Values that are
// not integers or fall outside the allowed range yield ErrInvalidPagination.
func GetListParams(c *gin.Context) (ListParams, error) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		return ListParams{}, ErrInvalidPagination
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultListLimit)))
	if err != nil {
		return ListParams{}, ErrInvalidPagination
	}

	params := ListParams{Skip: skip, Limit: limit}
	return params, params.Validate()
}

type ListResult struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Skip  int         `json:"skip"`
	Limit int         `json:"limit"`
}

func NewListResult(items interface{}, total int64, params ListParams) ListResult {
	return ListResult{
		Items: items,
		Total: total,
		Skip:  params.Skip,
		Limit: params.Limit,
	}
}

func SetListHeaders(c *gin.Context, result ListResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Skip", strconv.Itoa(result.Skip))
	c.Header("X-Limit", strconv.Itoa(result.Limit))
}
