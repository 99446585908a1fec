package request

import (
	"fmt"
	"strconv"

	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

// PageParams describes the "skip the first From results, return up to Size"
// pagination contract used by list endpoints.
type PageParams struct {
	From int
	Size int
}

// DefaultPageSize is applied when a list endpoint is called without a size parameter.
const DefaultPageSize = 10

// ParsePage validates raw from/size query values. Empty strings fall back to
// the defaults (from=0, size=DefaultPageSize). Violations are rejected here,
// before any service is called.
func ParsePage(fromStr, sizeStr string) (PageParams, error) {
	p := PageParams{From: 0, Size: DefaultPageSize}

	if fromStr != "" {
		from, err := strconv.Atoi(fromStr)
		if err != nil {
			return p, apperror.Validation(fmt.Sprintf("invalid from value: %s", fromStr))
		}
		if from < 0 {
			return p, apperror.Validation("from must not be negative")
		}
		p.From = from
	}

	if sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return p, apperror.Validation(fmt.Sprintf("invalid size value: %s", sizeStr))
		}
		if size <= 0 {
			return p, apperror.Validation("size must be positive")
		}
		p.Size = size
	}

	return p, nil
}
