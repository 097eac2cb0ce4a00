package model

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type SortOrder int

const (
	SortOrderUnsorted SortOrder = iota
	SortOrderAscending
	SortOrderDescending
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 25
)

// AcceptableSortFields is the fixed allow-list for GetAll ordering. Anything
// else is rejected during validation, before a query is ever built.
var AcceptableSortFields = []string{"title", "yearOfRelease"}

// GetAllMoviesOptions describes one read of the catalog: optional filters,
// optional viewer identity, optional sort, and paging. Built per request,
// never persisted.
type GetAllMoviesOptions struct {
	Title     *string
	Year      *int
	UserID    *uuid.UUID
	SortField *string
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// Validate enforces year range, the sort-field allow-list and page bounds.
// All violations are reported together.
func (o GetAllMoviesOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Year,
			validation.Min(1900).Error("year must be 1900 or later"),
			validation.Max(time.Now().UTC().Year()).Error("year must not be in the future"),
		),
		validation.Field(&o.SortField, validation.By(checkSortField)),
		validation.Field(&o.Page,
			validation.Required.Error("page must be greater than or equal to 1"),
			validation.Min(1).Error("page must be greater than or equal to 1"),
		),
		validation.Field(&o.PageSize,
			validation.Required.Error(fmt.Sprintf("page size must be between 1 and %d", MaxPageSize)),
			validation.Min(1).Error(fmt.Sprintf("page size must be between 1 and %d", MaxPageSize)),
			validation.Max(MaxPageSize).Error(fmt.Sprintf("page size must be between 1 and %d", MaxPageSize)),
		),
	)
}

func checkSortField(value interface{}) error {
	field, _ := value.(*string)
	if field == nil {
		return nil
	}
	for _, allowed := range AcceptableSortFields {
		if strings.EqualFold(*field, allowed) {
			return nil
		}
	}
	return fmt.Errorf("you can only sort by 'title' or 'yearOfRelease'")
}

// Offset converts page/page-size into the query offset.
func (o GetAllMoviesOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// CacheKey produces a deterministic key covering every option that changes
// the result set, viewer included.
func (o GetAllMoviesOptions) CacheKey() string {
	var b strings.Builder
	b.WriteString("movies:all")

	if o.Title != nil {
		fmt.Fprintf(&b, ":title=%s", strings.ToLower(*o.Title))
	}
	if o.Year != nil {
		fmt.Fprintf(&b, ":year=%d", *o.Year)
	}
	if o.UserID != nil {
		fmt.Fprintf(&b, ":user=%s", o.UserID)
	}
	if o.SortField != nil {
		fmt.Fprintf(&b, ":sort=%s:%d", strings.ToLower(*o.SortField), o.SortOrder)
	}
	fmt.Fprintf(&b, ":page=%d:size=%d", o.Page, o.PageSize)

	return b.String()
}
