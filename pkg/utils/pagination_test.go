package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        PaginationParams
	}{
		{"defaults", 0, -1, PaginationParams{Page: 1, Limit: 0}},
		{"passthrough", 2, 20, PaginationParams{Page: 2, Limit: 20}},
		{"clamped", 3, MaxPageSize + 1, PaginationParams{Page: 3, Limit: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetPaginationParams(tt.page, tt.limit))
		})
	}
}

func TestPaginationParams_OffsetAndNext(t *testing.T) {
	p := PaginationParams{Page: 1, Limit: 20}
	assert.Equal(t, 0, p.CalculateOffset())

	p = p.Next().Next()
	assert.Equal(t, PaginationParams{Page: 3, Limit: 20}, p)
	assert.Equal(t, 40, p.CalculateOffset())

	assert.Equal(t, 0, PaginationParams{Page: 4, Limit: 0}.CalculateOffset())
}

func TestCalculateMeta(t *testing.T) {
	meta := CalculateMeta(101, 2, 20)
	assert.Equal(t, PaginationMeta{Page: 2, Limit: 20, TotalCount: 101, TotalPages: 6}, meta)
	assert.True(t, meta.HasNext())

	last := CalculateMeta(100, 5, 20)
	assert.Equal(t, 5, last.TotalPages)
	assert.False(t, last.HasNext())

	empty := CalculateMeta(0, 1, 20)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNext())

	noLimit := CalculateMeta(15, 3, 0)
	assert.Equal(t, PaginationMeta{Page: 1, Limit: 15, TotalCount: 15, TotalPages: 1}, noLimit)
	assert.False(t, noLimit.HasNext())
}
