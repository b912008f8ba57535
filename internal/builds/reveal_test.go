package builds

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meur/buildforge/internal/models"
)

func TestVisibleCount(t *testing.T) {
	tests := []struct {
		page, size, total, want int
	}{
		{1, 4, 10, 4},
		{2, 4, 10, 8},
		{3, 4, 10, 10},
		{5, 4, 10, 10},
		{1, 4, 0, 0},
		{1, 4, 3, 3},
		{math.MaxInt / 2, 4, 10, 10},
		{1 << 62, 4, 10, 10},
		{math.MaxInt, 4, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VisibleCount(tt.page, tt.size, tt.total), "page=%d total=%d", tt.page, tt.total)
	}
}

func TestHasMore(t *testing.T) {
	assert.True(t, HasMore(4, 10))
	assert.False(t, HasMore(10, 10))
	assert.False(t, HasMore(0, 0))
}

func TestReveal(t *testing.T) {
	all := make([]models.Build, 10)
	for i := range all {
		all[i].ID = strconv.Itoa(i)
	}

	first := Reveal(all, 1, DefaultPageSize)
	assert.Len(t, first.Builds, 4)
	assert.Equal(t, "0", first.Builds[0].ID)
	assert.Equal(t, 10, first.Total)
	assert.True(t, first.HasMore)

	last := Reveal(all, 3, DefaultPageSize)
	assert.Len(t, last.Builds, 10)
	assert.Equal(t, 10, last.Visible)
	assert.False(t, last.HasMore)
}

func TestReveal_HugePage(t *testing.T) {
	list := Reveal(make([]models.Build, 10), 3<<61, DefaultPageSize)

	assert.Len(t, list.Builds, 10)
	assert.Equal(t, 10, list.Visible)
	assert.False(t, list.HasMore)
}

func TestReveal_Empty(t *testing.T) {
	list := Reveal(nil, 1, DefaultPageSize)

	assert.NotNil(t, list.Builds)
	assert.Empty(t, list.Builds)
	assert.Equal(t, 0, list.Total)
	assert.False(t, list.HasMore)
}
