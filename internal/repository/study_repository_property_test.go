package repository

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"study-group-api/internal/domain"
)

// walkPages drains the directory for one sort order, following cursors
// until a short page ends the walk
func walkPages(t *testing.T, repo StudyRepository, sort domain.SortOrder, pageSize int) []*domain.Study {
	t.Helper()
	ctx := context.Background()

	var all []*domain.Study
	var cursor *domain.StudyCursor
	for {
		page, err := repo.Search(ctx, &domain.StudySearch{
			PageSize: pageSize,
			Sort:     sort,
			Cursor:   cursor,
		})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all
		}
		last := page[len(page)-1]
		switch sort {
		case domain.SortLatest:
			createdAt := last.CreatedAt
			cursor = &domain.StudyCursor{CreatedBefore: &createdAt}
		default:
			vacancy := last.Vacancy
			cursor = &domain.StudyCursor{Vacancy: &vacancy}
		}
	}
}

// Paginating the directory with any page size must visit every study
// exactly once, in a consistent order, regardless of the sort chosen.
// Sort keys are distinct per row, which is what the cursor contract
// requires of the data set.
func TestProperty_DirectoryPaginationCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	sorts := []domain.SortOrder{domain.SortLatest, domain.SortSmallVacancy, domain.SortLargeVacancy}

	properties.Property("every study appears exactly once across pages", prop.ForAll(
		func(studyCount, pageSize, sortIdx int) bool {
			db := setupStudyTestDB(t)
			repo := NewStudyRepository(db)
			sort := sorts[sortIdx]

			base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
			seeded := make(map[string]bool, studyCount)
			for i := 0; i < studyCount; i++ {
				// Distinct created_at and distinct vacancy per row
				study := newTestStudy(base.Add(time.Duration(i)*time.Minute), studyCount, studyCount-1-i)
				if err := db.Create(study).Error; err != nil {
					t.Fatalf("failed to seed study: %v", err)
				}
				seeded[study.ID.String()] = true
			}

			all := walkPages(t, repo, sort, pageSize)

			if len(all) != studyCount {
				t.Logf("visited %d studies, want %d (sort %s, pageSize %d)", len(all), studyCount, sort, pageSize)
				return false
			}
			seen := make(map[string]bool, len(all))
			for _, study := range all {
				if seen[study.ID.String()] {
					t.Logf("study %s visited twice (sort %s, pageSize %d)", study.ID, sort, pageSize)
					return false
				}
				seen[study.ID.String()] = true
				if !seeded[study.ID.String()] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 25),
		gen.IntRange(1, 8),
		gen.IntRange(0, len(sorts)-1),
	))

	properties.Property("pages are monotone in the sort key", prop.ForAll(
		func(studyCount, pageSize, sortIdx int) bool {
			db := setupStudyTestDB(t)
			repo := NewStudyRepository(db)
			sort := sorts[sortIdx]

			base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < studyCount; i++ {
				study := newTestStudy(base.Add(time.Duration(i)*time.Minute), studyCount, studyCount-1-i)
				if err := db.Create(study).Error; err != nil {
					t.Fatalf("failed to seed study: %v", err)
				}
			}

			all := walkPages(t, repo, sort, pageSize)

			for i := 1; i < len(all); i++ {
				prev, cur := all[i-1], all[i]
				switch sort {
				case domain.SortLatest:
					if cur.CreatedAt.After(prev.CreatedAt) {
						return false
					}
				case domain.SortSmallVacancy:
					if cur.Vacancy < prev.Vacancy {
						return false
					}
				case domain.SortLargeVacancy:
					if cur.Vacancy > prev.Vacancy {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 25),
		gen.IntRange(1, 8),
		gen.IntRange(0, len(sorts)-1),
	))

	properties.TestingRun(t)
}
