package member

import (
	"net/http"
	"strconv"

	sharedContext "github.com/changhyeonkim/hello-orm/internal/shared/context"
	sharedError "github.com/changhyeonkim/hello-orm/internal/shared/error"
	"github.com/changhyeonkim/hello-orm/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService *MemberService
}

func NewMemberHandler(memberService *MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

func (h *MemberHandler) GetMember(c *gin.Context) {
	memberID, ok := requireMemberID(c)
	if !ok {
		return
	}

	response, err := h.memberService.GetMember(sharedContext.RequestContext(c), memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) Register(c *gin.Context) {
	var request RegisterRequest

	// Parse and validate JSON request
	if !handler.BindJSON(c, &request) {
		return
	}

	if err := h.memberService.Register(sharedContext.RequestContext(c), request.ID, request.Name); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, GetMemberResponse{ID: request.ID, Name: request.Name})
}

func (h *MemberHandler) Rename(c *gin.Context) {
	memberID, ok := requireMemberID(c)
	if !ok {
		return
	}

	var request RenameRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	if err := h.memberService.Rename(sharedContext.RequestContext(c), memberID, request.Name); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, GetMemberResponse{ID: memberID, Name: request.Name})
}

func (h *MemberHandler) Remove(c *gin.Context) {
	memberID, ok := requireMemberID(c)
	if !ok {
		return
	}

	if err := h.memberService.Remove(sharedContext.RequestContext(c), memberID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// requireMemberID parses the :id path parameter.
// On failure the error response has already been sent.
func requireMemberID(c *gin.Context) (int64, bool) {
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || memberID < 1 {
		resp, _ := sharedError.ResolveDomainError(ErrInvalidMemberID)
		handler.RespondError(c, ErrInvalidMemberID, resp)
		return 0, false
	}
	return memberID, true
}

func respondServiceError(c *gin.Context, err error) {
	if resp, ok := sharedError.ResolveDomainError(err); ok {
		handler.RespondError(c, err, resp)
		return
	}

	handler.RespondError(c, err, sharedError.InternalServerError)
}
