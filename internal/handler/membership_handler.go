package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"study-group-api/internal/dto"
	"study-group-api/internal/response"
	"study-group-api/internal/service"
)

type MembershipHandler struct {
	membershipService service.MembershipService
}

func NewMembershipHandler(membershipService service.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
	}
}

// RequestJoin godoc
// @Summary      가입 신청
// @Description  스터디에 가입 인사와 함께 참여를 신청합니다
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        studyId path string true "Study ID (UUID)"
// @Param        request body dto.JoinStudyRequest true "가입 신청 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.MembershipResponse} "가입 신청 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "스터디를 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "이미 신청한 스터디"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /{studyId}/members [post]
// @Security     BearerAuth
func (h *MembershipHandler) RequestJoin(c *gin.Context) {
	authData, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	studyID, err := uuid.Parse(c.Param("studyId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid study ID")
		return
	}

	var req dto.JoinStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Greeting is required")
		return
	}

	membership, err := h.membershipService.RequestJoin(c.Request.Context(), studyID, authData.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, membership)
}

// GetActiveMembers godoc
// @Summary      활동 멤버 목록 조회
// @Description  스터디의 승인된 멤버를 조회합니다
// @Tags         memberships
// @Produce      json
// @Param        studyId path string true "Study ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.MembershipResponse} "멤버 목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 Study ID"
// @Failure      404 {object} response.ErrorResponse "스터디를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /{studyId}/members [get]
func (h *MembershipHandler) GetActiveMembers(c *gin.Context) {
	studyID, err := uuid.Parse(c.Param("studyId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid study ID")
		return
	}

	members, err := h.membershipService.GetActiveMembers(c.Request.Context(), studyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, members)
}

// GetPendingRequests godoc
// @Summary      대기 중인 가입 신청 조회
// @Description  호스트가 아직 결정하지 않은 가입 신청을 조회합니다
// @Tags         memberships
// @Produce      json
// @Param        studyId path string true "Study ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.MembershipResponse} "가입 신청 목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 Study ID"
// @Failure      403 {object} response.ErrorResponse "호스트가 아님"
// @Failure      404 {object} response.ErrorResponse "스터디를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /{studyId}/members/pending [get]
// @Security     BearerAuth
func (h *MembershipHandler) GetPendingRequests(c *gin.Context) {
	authData, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	studyID, err := uuid.Parse(c.Param("studyId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid study ID")
		return
	}

	requests, err := h.membershipService.GetPendingRequests(c.Request.Context(), studyID, authData.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, requests)
}

// DecideMembership godoc
// @Summary      가입 신청 수락/거절
// @Description  호스트가 가입 신청을 수락하거나 거절합니다. 거절은 행을 삭제하지 않고 대기 상태로 되돌립니다
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        studyId path string true "Study ID (UUID)"
// @Param        userId path string true "User ID (UUID)"
// @Param        request body dto.DecideMembershipRequest true "수락 여부"
// @Success      200 {object} response.SuccessResponse{data=dto.MembershipResponse} "결정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청, 신청 없음 또는 정원 초과"
// @Failure      403 {object} response.ErrorResponse "호스트가 아님"
// @Failure      404 {object} response.ErrorResponse "스터디를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /{studyId}/members/{userId} [put]
// @Security     BearerAuth
func (h *MembershipHandler) DecideMembership(c *gin.Context) {
	authData, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	studyID, err := uuid.Parse(c.Param("studyId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid study ID")
		return
	}
	targetUserID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid user ID")
		return
	}

	var req dto.DecideMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Accept flag is required")
		return
	}

	membership, err := h.membershipService.Decide(c.Request.Context(), studyID, targetUserID, authData.UserID, *req.Accept)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, membership)
}

// UpdateGreeting godoc
// @Summary      가입 인사 수정
// @Description  신청자가 자신의 가입 인사를 수정합니다
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        studyId path string true "Study ID (UUID)"
// @Param        request body dto.UpdateGreetingRequest true "가입 인사 수정 요청"
// @Success      200 {object} response.SuccessResponse "수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "멤버십을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /{studyId}/members/me [patch]
// @Security     BearerAuth
func (h *MembershipHandler) UpdateGreeting(c *gin.Context) {
	authData, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	studyID, err := uuid.Parse(c.Param("studyId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid study ID")
		return
	}

	var req dto.UpdateGreetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Greeting is required")
		return
	}

	if err := h.membershipService.UpdateGreeting(c.Request.Context(), studyID, authData.UserID, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

// CancelMembership godoc
// @Summary      가입 신청 취소 / 멤버 제거
// @Description  신청자는 자신의 신청을 취소하거나 탈퇴하고, 호스트는 멤버를 제거합니다
// @Tags         memberships
// @Produce      json
// @Param        studyId path string true "Study ID (UUID)"
// @Param        userId path string true "User ID (UUID)"
// @Success      200 {object} response.SuccessResponse "제거 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 ID"
// @Failure      403 {object} response.ErrorResponse "본인 또는 호스트가 아님"
// @Failure      404 {object} response.ErrorResponse "스터디 또는 멤버십을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /{studyId}/members/{userId} [delete]
// @Security     BearerAuth
func (h *MembershipHandler) CancelMembership(c *gin.Context) {
	authData, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	studyID, err := uuid.Parse(c.Param("studyId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid study ID")
		return
	}
	targetUserID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid user ID")
		return
	}

	if err := h.membershipService.Cancel(c.Request.Context(), studyID, targetUserID, authData.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}
