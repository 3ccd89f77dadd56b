package dto

import (
	"fmt"
	"strconv"
	"time"

	"study-group-api/internal/domain"
)

// StudySearchRequest carries the raw directory query parameters.
// Cursor is interpreted according to the sort order: an RFC3339
// timestamp for LATEST, an integer vacancy value otherwise.
type StudySearchRequest struct {
	PageSize     int    `form:"pageSize"`
	Weekday      string `form:"weekday"`
	Frequency    string `form:"frequency"`
	Location     string `form:"location"`
	CategoryCode string `form:"categoryCode"`
	Sort         string `form:"sort"`
	Cursor       string `form:"cursor"`
}

// ToSearch validates the raw parameters and produces the typed query
// descriptor consumed by the repository
func (r *StudySearchRequest) ToSearch() (*domain.StudySearch, error) {
	search := &domain.StudySearch{
		PageSize: r.PageSize,
		Sort:     domain.SortLatest,
	}
	if search.PageSize <= 0 {
		search.PageSize = domain.DefaultPageSize
	}

	if r.Sort != "" {
		if !domain.IsValidSortOrder(r.Sort) {
			return nil, fmt.Errorf("unknown sort order %q", r.Sort)
		}
		search.Sort = domain.SortOrder(r.Sort)
	}

	if r.Weekday != "" {
		if !domain.IsValidWeekday(r.Weekday) {
			return nil, fmt.Errorf("unknown weekday %q", r.Weekday)
		}
		weekday := domain.Weekday(r.Weekday)
		search.Weekday = &weekday
	}
	if r.Frequency != "" {
		if !domain.IsValidFrequency(r.Frequency) {
			return nil, fmt.Errorf("unknown frequency %q", r.Frequency)
		}
		frequency := domain.Frequency(r.Frequency)
		search.Frequency = &frequency
	}
	if r.Location != "" {
		if !domain.IsValidLocation(r.Location) {
			return nil, fmt.Errorf("unknown location %q", r.Location)
		}
		location := domain.Location(r.Location)
		search.Location = &location
	}
	if r.CategoryCode != "" {
		if !domain.IsValidCategoryCode(r.CategoryCode) {
			return nil, fmt.Errorf("unknown category code %q", r.CategoryCode)
		}
		category := domain.CategoryCode(r.CategoryCode)
		search.CategoryCode = &category
	}

	if r.Cursor != "" {
		cursor, err := parseCursor(search.Sort, r.Cursor)
		if err != nil {
			return nil, err
		}
		search.Cursor = cursor
	}

	return search, nil
}

func parseCursor(sort domain.SortOrder, raw string) (*domain.StudyCursor, error) {
	switch sort {
	case domain.SortLatest:
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("cursor for %s must be an RFC3339 timestamp: %w", sort, err)
		}
		return &domain.StudyCursor{CreatedBefore: &ts}, nil
	case domain.SortSmallVacancy, domain.SortLargeVacancy:
		vacancy, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("cursor for %s must be an integer vacancy: %w", sort, err)
		}
		return &domain.StudyCursor{Vacancy: &vacancy}, nil
	}
	return nil, fmt.Errorf("unknown sort order %q", sort)
}

// EncodeCursor renders the sort key of the last study on a page as the
// next request's cursor value
func EncodeCursor(sort domain.SortOrder, last *domain.Study) string {
	switch sort {
	case domain.SortSmallVacancy, domain.SortLargeVacancy:
		return strconv.Itoa(last.Vacancy)
	default:
		return last.CreatedAt.Format(time.RFC3339Nano)
	}
}

// StudyPageResponse is one directory page plus the cursor for the next.
// NextCursor is empty on the final page.
type StudyPageResponse struct {
	Studies    []*StudyResponse `json:"studies"`
	NextCursor string           `json:"nextCursor,omitempty"`
}
