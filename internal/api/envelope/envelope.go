// Package envelope builds the uniform {success, message, data} response body
// shared by every API endpoint.
package envelope

import (
	"time"
)

// PageLimit is the page size reported in list pagination.
const PageLimit = 20

// now is swapped in tests.
var now = time.Now

// Response is the body of every API response. Data is always present and is
// null on errors.
type Response struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Data      any          `json:"data"`
	Errors    []FieldError `json:"errors,omitempty"`
	Error     any          `json:"error,omitempty"`
	Timestamp string       `json:"timestamp"`
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination describes a list page. The upstream total is not tracked, so
// totalPages is always 1 and hasNext always false.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// ListData is the data payload of list responses.
type ListData[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination builds pagination for a page holding total items.
func NewPagination(page, total int) Pagination {
	return Pagination{
		Page:       page,
		Limit:      PageLimit,
		Total:      total,
		TotalPages: 1,
		HasNext:    false,
		HasPrev:    page > 1,
	}
}

// Success wraps data in a successful response.
func Success(message string, data any) Response {
	return Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	}
}

// List wraps items and their pagination in a successful response.
func List[T any](message string, items []T, page int) Response {
	if items == nil {
		items = []T{}
	}
	return Success(message, ListData[T]{
		Items:      items,
		Pagination: NewPagination(page, len(items)),
	})
}

// Error builds a failed response.
func Error(message string) Response {
	return Response{
		Success:   false,
		Message:   message,
		Timestamp: timestamp(),
	}
}

// Validation builds a failed response listing the rules that did not pass.
func Validation(message string, errs []FieldError) Response {
	r := Error(message)
	if errs == nil {
		errs = []FieldError{}
	}
	r.Errors = errs
	return r
}

func timestamp() string {
	return now().UTC().Format(time.RFC3339Nano)
}
