package store

import "github.com/safar/inventory-api/internal/apperr"

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Page is an offset window over a stably ordered listing. No total count is
// computed.
type Page struct {
	Skip  int
	Limit int
}

func DefaultPage() Page {
	return Page{Skip: 0, Limit: DefaultLimit}
}

func NewPage(skip, limit int) (Page, error) {
	if skip < 0 {
		return Page{}, apperr.Validation("skip must not be negative")
	}
	if limit < 1 {
		return Page{}, apperr.Validation("limit must be at least 1")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Skip: skip, Limit: limit}, nil
}
