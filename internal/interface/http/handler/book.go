package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/catalog"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	addBookUseCase    *catalog.AddBookUseCase
	getBookUseCase    *catalog.GetBookUseCase
	listBooksUseCase  *catalog.ListBooksUseCase
	manageBookUseCase *catalog.ManageBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	addBookUseCase *catalog.AddBookUseCase,
	getBookUseCase *catalog.GetBookUseCase,
	listBooksUseCase *catalog.ListBooksUseCase,
	manageBookUseCase *catalog.ManageBookUseCase,
) *BookHandler {
	return &BookHandler{
		addBookUseCase:    addBookUseCase,
		getBookUseCase:    getBookUseCase,
		listBooksUseCase:  listBooksUseCase,
		manageBookUseCase: manageBookUseCase,
	}
}

// AddBook 新书入库
// @Summary      新书入库
// @Description  馆员录入新书,初始状态为在架
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) AddBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	result, err := h.addBookUseCase.Execute(c.Request.Context(), catalog.AddBookRequest{
		ISBN:      req.ISBN,
		Title:     req.Title,
		Category:  req.Category,
		Author:    req.Author,
		Publisher: req.Publisher,
		Price:     req.Price,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 构建HTTP响应
	response.Success(c, &dto.BookResponse{
		ID:        result.ID,
		ISBN:      result.ISBN,
		Title:     result.Title,
		Category:  result.Category,
		Author:    result.Author,
		Publisher: result.Publisher,
		Price:     result.Price,
		PriceYuan: dto.FormatPriceYuan(result.Price),
		Status:    result.Status,
		CreatedAt: result.CreatedAt,
	})
}

// GetBook 图书详情
// @Summary      图书详情
// @Description  根据ISBN查询图书详情(走Redis缓存)
// @Tags         图书
// @Produce      json
// @Param        isbn path string true "ISBN号"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{isbn} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	isbn := c.Param("isbn")

	result, err := h.getBookUseCase.Execute(c.Request.Context(), isbn)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.BookResponse{
		ID:        result.ID,
		ISBN:      result.ISBN,
		Title:     result.Title,
		Category:  result.Category,
		Author:    result.Author,
		Publisher: result.Publisher,
		Price:     result.Price,
		PriceYuan: dto.FormatPriceYuan(result.Price),
		Status:    result.Status,
		CreatedAt: result.CreatedAt,
	})
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询图书,支持关键词搜索、分类与流通状态过滤
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "搜索关键词"
// @Param        category query string false "分类"
// @Param        status query int false "流通状态(1在架2借出)"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), catalog.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Category: req.Category,
		Status:   req.Status,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	// 转换为HTTP层DTO
	list := make([]dto.BookListItem, len(result.List))
	for i, b := range result.List {
		list[i] = dto.BookListItem{
			ID:        b.ID,
			ISBN:      b.ISBN,
			Title:     b.Title,
			Category:  b.Category,
			Author:    b.Author,
			Publisher: b.Publisher,
			Price:     b.Price,
			PriceYuan: dto.FormatPriceYuan(b.Price),
			Status:    b.Status,
			CreatedAt: b.CreatedAt,
		}
	}

	response.SuccessWithPage(c, list, result.Total, result.Page, result.PageSize)
}

// UpdateBookInfo 更新图书信息
// @Summary      更新图书信息
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookInfoRequest true "图书信息"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/info [put]
func (h *BookHandler) UpdateBookInfo(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的图书ID")
		return
	}

	var req dto.UpdateBookInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	err = h.manageBookUseCase.UpdateBookInfo(c.Request.Context(), catalog.UpdateBookInfoRequest{
		ID:        uint(id),
		Title:     req.Title,
		Category:  req.Category,
		Author:    req.Author,
		Publisher: req.Publisher,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// UpdateBookPrice 调整租价
// @Summary      调整租价
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookPriceRequest true "新租价"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/price [put]
func (h *BookHandler) UpdateBookPrice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的图书ID")
		return
	}

	var req dto.UpdateBookPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.manageBookUseCase.UpdateBookPrice(c.Request.Context(), uint(id), req.Price); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  有借阅历史(含已归还)的图书不可删除
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "图书存在借阅记录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的图书ID")
		return
	}

	if err := h.manageBookUseCase.DeleteBook(c.Request.Context(), uint(id)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
