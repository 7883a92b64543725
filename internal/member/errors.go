package member

import (
	"net/http"

	sharedError "github.com/changhyeonkim/hello-orm/internal/shared/error"
)

const (
	memberNotFound      = "MEMBER_NOT_FOUND"      // errInfo
	memberAlreadyExists = "MEMBER_ALREADY_EXISTS" // errInfo
	memberConflict      = "MEMBER_CONFLICT"       // errInfo
	invalidMemberID     = "INVALID_MEMBER_ID"     // errInfo
)

var (
	ErrMemberNotFound      = sharedError.NewDomainError(memberNotFound)
	ErrMemberAlreadyExists = sharedError.NewDomainError(memberAlreadyExists)
	ErrMemberConflict      = sharedError.NewDomainError(memberConflict)
	ErrInvalidMemberID     = sharedError.NewDomainError(invalidMemberID)
)

func init() {
	sharedError.RegisterDomainErrorResponse(memberNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "MEMBER-001",
		Message: "회원 정보를 찾을 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(memberAlreadyExists, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "MEMBER-002",
		Message: "이미 존재하는 회원입니다.",
	})

	sharedError.RegisterDomainErrorResponse(memberConflict, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "MEMBER-003",
		Message: "다른 요청에 의해 회원 정보가 변경되었습니다. 다시 시도해 주세요.",
	})

	sharedError.RegisterDomainErrorResponse(invalidMemberID, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "MEMBER-004",
		Message: "잘못된 회원 ID입니다.",
	})
}
