package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"study-group-api/internal/dto"
	"study-group-api/internal/response"
	"study-group-api/internal/service"
)

type StudyHandler struct {
	studyService service.StudyService
}

func NewStudyHandler(studyService service.StudyService) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
	}
}

// SearchStudies godoc
// @Summary      스터디 목록 조회 (커서 기반)
// @Description  필터와 정렬 조건으로 스터디 목록을 페이지 단위로 조회합니다
// @Tags         studies
// @Produce      json
// @Param        pageSize query int false "페이지 크기 (기본 12)"
// @Param        weekday query string false "요일 필터"
// @Param        frequency query string false "빈도 필터"
// @Param        location query string false "장소 필터"
// @Param        categoryCode query string false "카테고리 필터"
// @Param        sort query string false "정렬 (LATEST, SMALL_VACANCY, LARGE_VACANCY)"
// @Param        cursor query string false "이전 페이지의 nextCursor 값"
// @Success      200 {object} response.SuccessResponse{data=dto.StudyPageResponse} "스터디 목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 검색 조건"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       / [get]
func (h *StudyHandler) SearchStudies(c *gin.Context) {
	var req dto.StudySearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid search parameters")
		return
	}

	search, err := req.ToSearch()
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, err.Error())
		return
	}

	page, err := h.studyService.SearchStudies(c.Request.Context(), search)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// CreateStudy godoc
// @Summary      스터디 생성
// @Description  호출자를 호스트로 하는 새 스터디를 생성합니다
// @Tags         studies
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateStudyRequest true "스터디 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.StudyResponse} "스터디 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       / [post]
// @Security     BearerAuth
func (h *StudyHandler) CreateStudy(c *gin.Context) {
	authData, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	var req dto.CreateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	study, err := h.studyService.CreateStudy(c.Request.Context(), authData.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, study)
}

// GetStudy godoc
// @Summary      스터디 단건 조회
// @Description  스터디 상세를 조회하고 조회수를 증가시킵니다
// @Tags         studies
// @Produce      json
// @Param        studyId path string true "Study ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.StudyResponse} "스터디 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 Study ID"
// @Failure      404 {object} response.ErrorResponse "스터디를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /{studyId} [get]
func (h *StudyHandler) GetStudy(c *gin.Context) {
	studyID, err := uuid.Parse(c.Param("studyId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid study ID")
		return
	}

	study, err := h.studyService.GetStudy(c.Request.Context(), studyID, viewerKey(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, study)
}

// UpdateStudy godoc
// @Summary      스터디 수정
// @Description  호스트가 스터디 정보를 수정합니다
// @Tags         studies
// @Accept       json
// @Produce      json
// @Param        studyId path string true "Study ID (UUID)"
// @Param        request body dto.UpdateStudyRequest true "스터디 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.StudyResponse} "스터디 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      403 {object} response.ErrorResponse "호스트가 아님"
// @Failure      404 {object} response.ErrorResponse "스터디를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /{studyId} [put]
// @Security     BearerAuth
func (h *StudyHandler) UpdateStudy(c *gin.Context) {
	authData, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	studyID, err := uuid.Parse(c.Param("studyId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid study ID")
		return
	}

	var req dto.UpdateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	study, err := h.studyService.UpdateStudy(c.Request.Context(), studyID, authData.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, study)
}

// DeleteStudy godoc
// @Summary      스터디 삭제
// @Description  호스트가 스터디와 모든 멤버십을 삭제합니다
// @Tags         studies
// @Produce      json
// @Param        studyId path string true "Study ID (UUID)"
// @Success      200 {object} response.SuccessResponse "스터디 삭제 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 Study ID"
// @Failure      403 {object} response.ErrorResponse "호스트가 아님"
// @Failure      404 {object} response.ErrorResponse "스터디를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /{studyId} [delete]
// @Security     BearerAuth
func (h *StudyHandler) DeleteStudy(c *gin.Context) {
	authData, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	studyID, err := uuid.Parse(c.Param("studyId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid study ID")
		return
	}

	if err := h.studyService.DeleteStudy(c.Request.Context(), studyID, authData.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

// viewerKey identifies the viewer for view-count dedup: the
// authenticated user when present, otherwise the client address
func viewerKey(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uuid.UUID); ok {
			return id.String()
		}
	}
	return c.ClientIP()
}
