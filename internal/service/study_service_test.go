package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-group-api/internal/domain"
	"study-group-api/internal/dto"
	"study-group-api/internal/response"
)

func newTestStudyService(repo *MockStudyRepository) StudyService {
	return NewStudyService(repo, nil, zap.NewNop(), nil)
}

func validCreateRequest() *dto.CreateStudyRequest {
	return &dto.CreateStudyRequest{
		Title:        "Go 스터디",
		Description:  "주 1회 온라인 모임",
		CategoryCode: "PROGRAMMING",
		Weekday:      "SAT",
		Frequency:    "ONCE_A_WEEK",
		Location:     "ONLINE",
		Capacity:     5,
	}
}

func TestStudyService_CreateStudy(t *testing.T) {
	hostID := uuid.New()

	tests := []struct {
		name        string
		modify      func(*dto.CreateStudyRequest)
		mockRepo    func(*MockStudyRepository)
		wantErr     bool
		wantErrCode string
	}{
		{
			name:   "성공: 정상 생성",
			modify: func(r *dto.CreateStudyRequest) {},
			mockRepo: func(m *MockStudyRepository) {
				m.CreateFunc = func(ctx context.Context, study *domain.Study) error {
					study.ID = uuid.New()
					study.CreatedAt = time.Now()
					return nil
				}
			},
			wantErr: false,
		},
		{
			name:        "실패: 알 수 없는 weekday",
			modify:      func(r *dto.CreateStudyRequest) { r.Weekday = "SOMEDAY" },
			mockRepo:    func(m *MockStudyRepository) {},
			wantErr:     true,
			wantErrCode: response.ErrCodeValidation,
		},
		{
			name:        "실패: 알 수 없는 frequency",
			modify:      func(r *dto.CreateStudyRequest) { r.Frequency = "HOURLY" },
			mockRepo:    func(m *MockStudyRepository) {},
			wantErr:     true,
			wantErrCode: response.ErrCodeValidation,
		},
		{
			name:        "실패: 알 수 없는 location",
			modify:      func(r *dto.CreateStudyRequest) { r.Location = "MOON" },
			mockRepo:    func(m *MockStudyRepository) {},
			wantErr:     true,
			wantErrCode: response.ErrCodeValidation,
		},
		{
			name:        "실패: 알 수 없는 category",
			modify:      func(r *dto.CreateStudyRequest) { r.CategoryCode = "COOKING" },
			mockRepo:    func(m *MockStudyRepository) {},
			wantErr:     true,
			wantErrCode: response.ErrCodeValidation,
		},
		{
			name:        "실패: capacity가 1 미만",
			modify:      func(r *dto.CreateStudyRequest) { r.Capacity = 0 },
			mockRepo:    func(m *MockStudyRepository) {},
			wantErr:     true,
			wantErrCode: response.ErrCodeValidation,
		},
		{
			name:   "실패: DB 에러",
			modify: func(r *dto.CreateStudyRequest) {},
			mockRepo: func(m *MockStudyRepository) {
				m.CreateFunc = func(ctx context.Context, study *domain.Study) error {
					return errors.New("database error")
				}
			},
			wantErr:     true,
			wantErrCode: response.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			mockRepo := &MockStudyRepository{}
			tt.mockRepo(mockRepo)
			service := newTestStudyService(mockRepo)

			req := validCreateRequest()
			tt.modify(req)

			// When
			result, err := service.CreateStudy(context.Background(), hostID, req)

			// Then
			if tt.wantErr {
				if err == nil {
					t.Fatal("CreateStudy() error = nil, want error")
				}
				if appErr, ok := err.(*response.AppError); ok {
					if appErr.Code != tt.wantErrCode {
						t.Errorf("CreateStudy() error code = %v, want %v", appErr.Code, tt.wantErrCode)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateStudy() unexpected error = %v", err)
			}
			if result.HostID != hostID {
				t.Errorf("CreateStudy() HostID = %v, want %v", result.HostID, hostID)
			}
			if result.MembersCount != 0 {
				t.Errorf("CreateStudy() MembersCount = %v, want 0", result.MembersCount)
			}
			if result.Vacancy != req.Capacity {
				t.Errorf("CreateStudy() Vacancy = %v, want %v", result.Vacancy, req.Capacity)
			}
			if !result.IsOpen {
				t.Error("CreateStudy() IsOpen = false, want true")
			}
		})
	}
}

func TestStudyService_GetStudy(t *testing.T) {
	studyID := uuid.New()

	t.Run("성공: 조회 시 view count 증가", func(t *testing.T) {
		incremented := false
		mockRepo := &MockStudyRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Study, error) {
				return &domain.Study{
					BaseModel: domain.BaseModel{ID: studyID},
					Title:     "Go 스터디",
					Capacity:  5,
					ViewCount: 10,
				}, nil
			},
			IncrementViewCountFunc: func(ctx context.Context, id uuid.UUID) error {
				incremented = true
				return nil
			},
		}
		service := newTestStudyService(mockRepo)

		result, err := service.GetStudy(context.Background(), studyID, "viewer-1")
		if err != nil {
			t.Fatalf("GetStudy() unexpected error = %v", err)
		}
		if !incremented {
			t.Error("GetStudy() did not increment view count")
		}
		if result.ViewCount != 11 {
			t.Errorf("GetStudy() ViewCount = %v, want 11", result.ViewCount)
		}
	})

	t.Run("성공: view count 증가 실패해도 조회는 성공", func(t *testing.T) {
		mockRepo := &MockStudyRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Study, error) {
				return &domain.Study{BaseModel: domain.BaseModel{ID: studyID}, ViewCount: 10}, nil
			},
			IncrementViewCountFunc: func(ctx context.Context, id uuid.UUID) error {
				return errors.New("database error")
			},
		}
		service := newTestStudyService(mockRepo)

		result, err := service.GetStudy(context.Background(), studyID, "viewer-1")
		if err != nil {
			t.Fatalf("GetStudy() unexpected error = %v", err)
		}
		if result.ViewCount != 10 {
			t.Errorf("GetStudy() ViewCount = %v, want 10", result.ViewCount)
		}
	})

	t.Run("실패: 존재하지 않는 study", func(t *testing.T) {
		mockRepo := &MockStudyRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Study, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		service := newTestStudyService(mockRepo)

		_, err := service.GetStudy(context.Background(), studyID, "viewer-1")
		if err == nil {
			t.Fatal("GetStudy() error = nil, want NOT_FOUND")
		}
		if appErr, ok := err.(*response.AppError); !ok || appErr.Code != response.ErrCodeNotFound {
			t.Errorf("GetStudy() error = %v, want code %v", err, response.ErrCodeNotFound)
		}
	})
}

func TestStudyService_UpdateStudy(t *testing.T) {
	studyID := uuid.New()
	hostID := uuid.New()
	otherID := uuid.New()

	existing := func() *domain.Study {
		s := &domain.Study{
			BaseModel:    domain.BaseModel{ID: studyID},
			HostID:       hostID,
			Title:        "Go 스터디",
			CategoryCode: domain.CategoryProgramming,
			Weekday:      domain.WeekdaySat,
			Frequency:    domain.FrequencyOnceAWeek,
			Location:     domain.LocationOnline,
			Capacity:     5,
			MembersCount: 3,
		}
		s.Recalculate()
		return s
	}

	strPtr := func(s string) *string { return &s }
	intPtr := func(i int) *int { return &i }

	tests := []struct {
		name        string
		callerID    uuid.UUID
		req         *dto.UpdateStudyRequest
		wantErr     bool
		wantErrCode string
		check       func(*testing.T, *dto.StudyResponse)
	}{
		{
			name:     "성공: 제목 변경",
			callerID: hostID,
			req:      &dto.UpdateStudyRequest{Title: strPtr("알고리즘 스터디")},
			check: func(t *testing.T, r *dto.StudyResponse) {
				if r.Title != "알고리즘 스터디" {
					t.Errorf("Title = %v", r.Title)
				}
			},
		},
		{
			name:     "성공: capacity 확장 시 vacancy 재계산",
			callerID: hostID,
			req:      &dto.UpdateStudyRequest{Capacity: intPtr(10)},
			check: func(t *testing.T, r *dto.StudyResponse) {
				if r.Vacancy != 7 {
					t.Errorf("Vacancy = %v, want 7", r.Vacancy)
				}
				if !r.IsOpen {
					t.Error("IsOpen = false, want true")
				}
			},
		},
		{
			name:     "성공: capacity를 member 수까지 축소하면 모집 마감",
			callerID: hostID,
			req:      &dto.UpdateStudyRequest{Capacity: intPtr(3)},
			check: func(t *testing.T, r *dto.StudyResponse) {
				if r.Vacancy != 0 {
					t.Errorf("Vacancy = %v, want 0", r.Vacancy)
				}
				if r.IsOpen {
					t.Error("IsOpen = true, want false")
				}
			},
		},
		{
			name:        "실패: capacity를 member 수 미만으로 축소",
			callerID:    hostID,
			req:         &dto.UpdateStudyRequest{Capacity: intPtr(2)},
			wantErr:     true,
			wantErrCode: response.ErrCodeValidation,
		},
		{
			name:        "실패: 알 수 없는 weekday",
			callerID:    hostID,
			req:         &dto.UpdateStudyRequest{Weekday: strPtr("SOMEDAY")},
			wantErr:     true,
			wantErrCode: response.ErrCodeValidation,
		},
		{
			name:        "실패: host가 아닌 사용자",
			callerID:    otherID,
			req:         &dto.UpdateStudyRequest{Title: strPtr("새 제목")},
			wantErr:     true,
			wantErrCode: response.ErrCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			mockRepo := &MockStudyRepository{
				FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Study, error) {
					return existing(), nil
				},
			}
			service := newTestStudyService(mockRepo)

			// When
			result, err := service.UpdateStudy(context.Background(), studyID, tt.callerID, tt.req)

			// Then
			if tt.wantErr {
				if err == nil {
					t.Fatal("UpdateStudy() error = nil, want error")
				}
				if appErr, ok := err.(*response.AppError); ok {
					if appErr.Code != tt.wantErrCode {
						t.Errorf("UpdateStudy() error code = %v, want %v", appErr.Code, tt.wantErrCode)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateStudy() unexpected error = %v", err)
			}
			tt.check(t, result)
		})
	}
}

func TestStudyService_DeleteStudy(t *testing.T) {
	studyID := uuid.New()
	hostID := uuid.New()

	t.Run("성공: host가 삭제", func(t *testing.T) {
		deleted := false
		mockRepo := &MockStudyRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Study, error) {
				return &domain.Study{BaseModel: domain.BaseModel{ID: studyID}, HostID: hostID}, nil
			},
			DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
				deleted = true
				return nil
			},
		}
		service := newTestStudyService(mockRepo)

		if err := service.DeleteStudy(context.Background(), studyID, hostID); err != nil {
			t.Fatalf("DeleteStudy() unexpected error = %v", err)
		}
		if !deleted {
			t.Error("DeleteStudy() did not call repository delete")
		}
	})

	t.Run("실패: host가 아닌 사용자", func(t *testing.T) {
		mockRepo := &MockStudyRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Study, error) {
				return &domain.Study{BaseModel: domain.BaseModel{ID: studyID}, HostID: hostID}, nil
			},
		}
		service := newTestStudyService(mockRepo)

		err := service.DeleteStudy(context.Background(), studyID, uuid.New())
		if appErr, ok := err.(*response.AppError); !ok || appErr.Code != response.ErrCodeForbidden {
			t.Errorf("DeleteStudy() error = %v, want code %v", err, response.ErrCodeForbidden)
		}
	})
}

func TestStudyService_SearchStudies(t *testing.T) {
	makeStudies := func(n int) []*domain.Study {
		studies := make([]*domain.Study, n)
		for i := range studies {
			studies[i] = &domain.Study{
				BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour)},
				Title:     "스터디",
				Capacity:  5,
				Vacancy:   i,
			}
		}
		return studies
	}

	t.Run("성공: 꽉 찬 페이지는 next cursor 포함", func(t *testing.T) {
		mockRepo := &MockStudyRepository{
			SearchFunc: func(ctx context.Context, search *domain.StudySearch) ([]*domain.Study, error) {
				return makeStudies(search.PageSize), nil
			},
		}
		service := newTestStudyService(mockRepo)

		page, err := service.SearchStudies(context.Background(), &domain.StudySearch{PageSize: 4, Sort: domain.SortLatest})
		if err != nil {
			t.Fatalf("SearchStudies() unexpected error = %v", err)
		}
		if len(page.Studies) != 4 {
			t.Errorf("SearchStudies() page size = %v, want 4", len(page.Studies))
		}
		if page.NextCursor == "" {
			t.Error("SearchStudies() NextCursor empty on full page")
		}
	})

	t.Run("성공: 마지막 페이지는 next cursor 없음", func(t *testing.T) {
		mockRepo := &MockStudyRepository{
			SearchFunc: func(ctx context.Context, search *domain.StudySearch) ([]*domain.Study, error) {
				return makeStudies(2), nil
			},
		}
		service := newTestStudyService(mockRepo)

		page, err := service.SearchStudies(context.Background(), &domain.StudySearch{PageSize: 4, Sort: domain.SortLatest})
		if err != nil {
			t.Fatalf("SearchStudies() unexpected error = %v", err)
		}
		if page.NextCursor != "" {
			t.Errorf("SearchStudies() NextCursor = %q, want empty on final page", page.NextCursor)
		}
	})

	t.Run("성공: 빈 페이지도 정상 응답", func(t *testing.T) {
		mockRepo := &MockStudyRepository{
			SearchFunc: func(ctx context.Context, search *domain.StudySearch) ([]*domain.Study, error) {
				return nil, nil
			},
		}
		service := newTestStudyService(mockRepo)

		page, err := service.SearchStudies(context.Background(), &domain.StudySearch{PageSize: 4, Sort: domain.SortLatest})
		if err != nil {
			t.Fatalf("SearchStudies() unexpected error = %v", err)
		}
		if len(page.Studies) != 0 {
			t.Errorf("SearchStudies() page size = %v, want 0", len(page.Studies))
		}
		if page.NextCursor != "" {
			t.Error("SearchStudies() NextCursor should be empty on empty page")
		}
	})

	t.Run("성공: page size 미지정 시 기본값 적용", func(t *testing.T) {
		var gotPageSize int
		mockRepo := &MockStudyRepository{
			SearchFunc: func(ctx context.Context, search *domain.StudySearch) ([]*domain.Study, error) {
				gotPageSize = search.PageSize
				return nil, nil
			},
		}
		service := newTestStudyService(mockRepo)

		if _, err := service.SearchStudies(context.Background(), &domain.StudySearch{Sort: domain.SortLatest}); err != nil {
			t.Fatalf("SearchStudies() unexpected error = %v", err)
		}
		if gotPageSize != domain.DefaultPageSize {
			t.Errorf("SearchStudies() page size = %v, want %v", gotPageSize, domain.DefaultPageSize)
		}
	})

	t.Run("실패: DB 에러", func(t *testing.T) {
		mockRepo := &MockStudyRepository{
			SearchFunc: func(ctx context.Context, search *domain.StudySearch) ([]*domain.Study, error) {
				return nil, errors.New("database error")
			},
		}
		service := newTestStudyService(mockRepo)

		_, err := service.SearchStudies(context.Background(), &domain.StudySearch{PageSize: 4, Sort: domain.SortLatest})
		if appErr, ok := err.(*response.AppError); !ok || appErr.Code != response.ErrCodeInternal {
			t.Errorf("SearchStudies() error = %v, want code %v", err, response.ErrCodeInternal)
		}
	})
}
