package handler

import (
	"github.com/gin-gonic/gin"

	appmember "github.com/xiebiao/library/internal/application/member"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// MemberHandler 读者HTTP处理器
type MemberHandler struct {
	registerUseCase      *appmember.RegisterMemberUseCase
	updateAddressUseCase *appmember.UpdateMemberAddressUseCase
	loanHistoryUseCase   *appmember.MemberLoanHistoryUseCase
}

// NewMemberHandler 创建读者处理器
func NewMemberHandler(
	registerUseCase *appmember.RegisterMemberUseCase,
	updateAddressUseCase *appmember.UpdateMemberAddressUseCase,
	loanHistoryUseCase *appmember.MemberLoanHistoryUseCase,
) *MemberHandler {
	return &MemberHandler{
		registerUseCase:      registerUseCase,
		updateAddressUseCase: updateAddressUseCase,
		loanHistoryUseCase:   loanHistoryUseCase,
	}
}

// RegisterMember 读者办证
// @Summary      读者办证
// @Tags         读者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RegisterMemberRequest true "读者信息"
// @Success      200 {object} response.Response{data=dto.MemberResponse}
// @Failure      409 {object} response.Response "借书证号已存在"
// @Router       /api/v1/members [post]
func (h *MemberHandler) RegisterMember(c *gin.Context) {
	var req dto.RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appmember.RegisterMemberRequest{
		MemberNo: req.MemberNo,
		Name:     req.Name,
		Address:  req.Address,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.MemberResponse{
		ID:       result.ID,
		MemberNo: result.MemberNo,
		Name:     result.Name,
		Address:  result.Address,
		RegDate:  result.RegDate,
	})
}

// UpdateMemberAddress 读者地址变更
// @Summary      读者地址变更
// @Tags         读者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        member_no path string true "借书证号"
// @Param        request body dto.UpdateMemberAddressRequest true "新地址"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /api/v1/members/{member_no}/address [put]
func (h *MemberHandler) UpdateMemberAddress(c *gin.Context) {
	memberNo := c.Param("member_no")

	var req dto.UpdateMemberAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.updateAddressUseCase.Execute(c.Request.Context(), memberNo, req.Address); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// GetMemberLoans 读者借阅历史
// @Summary      读者借阅历史
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Param        member_no path string true "借书证号"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /api/v1/members/{member_no}/loans [get]
func (h *MemberHandler) GetMemberLoans(c *gin.Context) {
	memberNo := c.Param("member_no")

	var req dto.MemberLoansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.loanHistoryUseCase.Execute(c.Request.Context(), memberNo, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
