package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size  int
		from, limit int
	}{
		{page: 1, size: 10, from: 0, limit: 10},
		{page: 3, size: 20, from: 40, limit: 20},
		{page: 0, size: 5, from: 0, limit: 5},
		{page: 2, size: 0, from: 10, limit: DefaultPageSize},
		{page: 2, size: 500, from: 10, limit: DefaultPageSize},
	}

	for _, tt := range tests {
		from, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.from, from, "page=%d size=%d", tt.page, tt.size)
		assert.Equal(t, tt.limit, limit, "page=%d size=%d", tt.page, tt.size)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("seven", 7))
	assert.Equal(t, 42, ParseIntDefault("42", 7))
}
