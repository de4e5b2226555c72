package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/circulation"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// LoanHandler 流通HTTP处理器(借出、归还、滞纳金批处理)
// 设计说明:
// 1. 拒借/重复归还通过响应的outcome字段表达,HTTP层面仍是成功响应
// 2. 经办馆员工号不从请求体取,从认证中间件注入的Context取
type LoanHandler struct {
	issueBookUseCase      *circulation.IssueBookUseCase
	returnBookUseCase     *circulation.ReturnBookUseCase
	assessLateFeesUseCase *circulation.AssessLateFeesUseCase
}

// NewLoanHandler 创建流通处理器
func NewLoanHandler(
	issueBookUseCase *circulation.IssueBookUseCase,
	returnBookUseCase *circulation.ReturnBookUseCase,
	assessLateFeesUseCase *circulation.AssessLateFeesUseCase,
) *LoanHandler {
	return &LoanHandler{
		issueBookUseCase:      issueBookUseCase,
		returnBookUseCase:     returnBookUseCase,
		assessLateFeesUseCase: assessLateFeesUseCase,
	}
}

// IssueBook 借出图书
// @Summary      借出图书
// @Description  借还台扫码借出;图书已借出时返回outcome=declined(非错误)
// @Tags         流通
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.IssueBookRequest true "借出信息"
// @Success      200 {object} response.Response{data=dto.IssueBookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书/读者不存在"
// @Failure      409 {object} response.Response "借阅单号重复"
// @Router       /api/v1/loans [post]
func (h *LoanHandler) IssueBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.IssueBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 经办馆员 = 当前登录馆员
	empNo := middleware.MustGetEmpNo(c)

	// 3. 调用应用层用例
	result, err := h.issueBookUseCase.Execute(c.Request.Context(), circulation.IssueBookRequest{
		IssueNo:  req.IssueNo,
		MemberNo: req.MemberNo,
		ISBN:     req.ISBN,
		EmpNo:    empNo,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	// 4. 构建HTTP响应(拒借也是成功响应,outcome=declined)
	response.Success(c, &dto.IssueBookResponse{
		Outcome:   result.Outcome,
		Message:   result.Message,
		IssueNo:   result.IssueNo,
		ISBN:      result.ISBN,
		IssueDate: result.IssueDate,
	})
}

// ReturnBook 归还图书
// @Summary      归还图书
// @Description  归还借出的图书;重复归还时返回outcome=declined(非错误)。滞纳金为最后一次批处理的冻结值,归还不重算
// @Tags         流通
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ReturnBookRequest true "归还信息"
// @Success      200 {object} response.Response{data=dto.ReturnBookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "借阅单不存在"
// @Failure      409 {object} response.Response "归还单号重复"
// @Router       /api/v1/returns [post]
func (h *LoanHandler) ReturnBook(c *gin.Context) {
	var req dto.ReturnBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.returnBookUseCase.Execute(c.Request.Context(), circulation.ReturnBookRequest{
		ReturnNo: req.ReturnNo,
		IssueNo:  req.IssueNo,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.ReturnBookResponse{
		Outcome:     result.Outcome,
		Message:     result.Message,
		ReturnNo:    result.ReturnNo,
		ISBN:        result.ISBN,
		BookTitle:   result.BookTitle,
		ReturnDate:  result.ReturnDate,
		LateFee:     result.LateFee,
		LateFeeYuan: dto.FormatPriceYuan(result.LateFee),
	})
}

// AssessLateFees 滞纳金批处理
// @Summary      滞纳金批处理
// @Description  扫描全部未归还借阅,按宽限期和日费率计算并回写滞纳金。幂等,通常由调度器每日触发
// @Tags         流通
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.AssessLateFeesResponse}
// @Router       /api/v1/loans/assess-late-fees [post]
func (h *LoanHandler) AssessLateFees(c *gin.Context) {
	result, err := h.assessLateFeesUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.AssessLateFeesResponse{
		Scanned:  result.Scanned,
		Updated:  result.Updated,
		Skipped:  result.Skipped,
		Failed:   result.Failed,
		AssessAt: result.AssessAt,
	})
}
