package envelope

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, total int
		want        Pagination
	}{
		{1, 3, Pagination{Page: 1, Limit: 20, Total: 3, TotalPages: 1}},
		{2, 20, Pagination{Page: 2, Limit: 20, Total: 20, TotalPages: 1, HasPrev: true}},
		{1, 0, Pagination{Page: 1, Limit: 20, Total: 0, TotalPages: 1}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPagination(tt.page, tt.total))
	}
}

func TestList_JSON(t *testing.T) {
	fixedNow(t)

	body, err := json.Marshal(List("Search results retrieved successfully", []string{"Fight Club"}, 1))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"success": true,
		"message": "Search results retrieved successfully",
		"data": {
			"items": ["Fight Club"],
			"pagination": {"page": 1, "limit": 20, "total": 1, "totalPages": 1, "hasNext": false, "hasPrev": false}
		},
		"timestamp": "2024-05-01T12:00:00Z"
	}`, string(body))
}

func TestList_NilItems(t *testing.T) {
	resp := List[int]("ok", nil, 3)
	data := resp.Data.(ListData[int])

	assert.NotNil(t, data.Items)
	assert.Equal(t, 0, data.Pagination.Total)
	assert.True(t, data.Pagination.HasPrev)
}

func TestError_JSON(t *testing.T) {
	fixedNow(t)

	body, err := json.Marshal(Error("Movie not found"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"success": false,
		"message": "Movie not found",
		"data": null,
		"timestamp": "2024-05-01T12:00:00Z"
	}`, string(body))
}

func TestValidation_JSON(t *testing.T) {
	resp := Validation("Validation failed", []FieldError{{Field: "year", Message: "must be at least 1870"}})

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "year", resp.Errors[0].Field)

	empty := Validation("Search query is required", nil)
	assert.NotNil(t, empty.Errors)
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "Invalid movie ID", NewValidationError("Invalid movie ID").Error())

	err := NewValidationError("Validation failed", FieldError{Field: "sortBy", Message: "is not supported"})
	assert.Equal(t, "Validation failed (sortBy: is not supported)", err.Error())
}
