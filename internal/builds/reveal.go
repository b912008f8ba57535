package builds

import "github.com/meur/buildforge/internal/models"

// DefaultPageSize is how many builds each "load more" reveals
const DefaultPageSize = 4

// VisibleCount is how many builds are shown once page pages are requested
func VisibleCount(page, pageSize, total int) int {
	// past the last full page page*pageSize exceeds total, possibly by overflowing
	if page > total/pageSize {
		return total
	}
	return page * pageSize
}

// HasMore reports whether another page can be revealed
func HasMore(visible, total int) bool {
	return visible < total
}

// Reveal returns the first page*pageSize builds along with paging state.
// page must be >= 1 and pageSize > 0.
func Reveal(builds []models.Build, page, pageSize int) models.BuildList {
	if builds == nil {
		builds = []models.Build{}
	}
	total := len(builds)
	visible := VisibleCount(page, pageSize, total)
	return models.BuildList{
		Builds:  builds[:visible],
		Page:    page,
		Visible: visible,
		Total:   total,
		HasMore: HasMore(visible, total),
	}
}
