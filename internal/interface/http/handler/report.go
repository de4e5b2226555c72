package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/report"
	"github.com/xiebiao/library/pkg/response"
)

// ReportHandler 报表HTTP处理器
type ReportHandler struct {
	overdueLoansUseCase *report.OverdueLoansUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(overdueLoansUseCase *report.OverdueLoansUseCase) *ReportHandler {
	return &ReportHandler{
		overdueLoansUseCase: overdueLoansUseCase,
	}
}

// OverdueLoans 逾期借阅报表
// @Summary      逾期借阅报表
// @Description  查询超出宽限期且未归还的借阅。只读路径,滞纳金为最近一次批处理的回写值
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/reports/overdue-loans [get]
func (h *ReportHandler) OverdueLoans(c *gin.Context) {
	result, err := h.overdueLoansUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
