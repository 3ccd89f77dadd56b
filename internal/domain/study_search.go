package domain

import "time"

// SortOrder determines directory ordering and the meaning of the cursor
type SortOrder string

const (
	// SortLatest orders by creation time, newest first; cursor is a timestamp
	SortLatest SortOrder = "LATEST"
	// SortSmallVacancy orders by vacancy ascending; cursor is a vacancy value
	SortSmallVacancy SortOrder = "SMALL_VACANCY"
	// SortLargeVacancy orders by vacancy descending; cursor is a vacancy value
	SortLargeVacancy SortOrder = "LARGE_VACANCY"
)

// IsValidSortOrder reports whether v is a recognized sort order
func IsValidSortOrder(v string) bool {
	switch SortOrder(v) {
	case SortLatest, SortSmallVacancy, SortLargeVacancy:
		return true
	}
	return false
}

// StudyCursor is the typed pagination cursor. Exactly one field is set,
// matching the active sort order: CreatedBefore for SortLatest,
// Vacancy for the two vacancy orders.
type StudyCursor struct {
	CreatedBefore *time.Time
	Vacancy       *int
}

// StudySearch is the validated directory query descriptor. Filters are
// exact-match predicates combined with AND; nil means no constraint.
type StudySearch struct {
	PageSize     int
	Weekday      *Weekday
	Frequency    *Frequency
	Location     *Location
	CategoryCode *CategoryCode
	Sort         SortOrder
	Cursor       *StudyCursor
}

// DefaultPageSize is applied when a request omits the page size or
// supplies a non-positive value.
const DefaultPageSize = 12
