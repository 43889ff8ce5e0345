package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookhouse/internal/application/book"
	"github.com/xiebiao/bookhouse/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
	"github.com/xiebiao/bookhouse/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBookUseCase *appbook.CreateBookUseCase
	listBooksUseCase  *appbook.ListBooksUseCase
	manageBookUseCase *appbook.ManageBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	manageBookUseCase *appbook.ManageBookUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase: createBookUseCase,
		listBooksUseCase:  listBooksUseCase,
		manageBookUseCase: manageBookUseCase,
	}
}

// parsePubDate 解析出版日期(YYYY-MM-DD,空串返回nil)
func parsePubDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateBook 图书入库
// @Summary      图书入库
// @Description  登记新图书,作者与出版类型按名称嵌套录入(存在则复用)
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "登记号已存在(code=40010)/书架已满(code=40013)"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	pubDate, err := parsePubDate(req.PubDate)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的出版日期")
		return
	}

	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Name:            req.Name,
		PubDate:         pubDate,
		Number:          req.Number,
		PageCount:       req.PageCount,
		Description:     req.Description,
		PublicationType: req.PublicationType,
		Authors:         req.Authors,
		ShelfID:         req.ShelfID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBooks 查询图书列表
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Param        name query string false "按书名模糊过滤"
// @Param        pub_date query string false "按出版日期过滤(YYYY-MM-DD)"
// @Param        description query string false "按描述模糊过滤"
// @Param        order_by query string false "排序(name_asc/name_desc/pub_date_asc/pub_date_desc)"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.BookListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	books, total, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Name:        q.Name,
		PubDate:     q.PubDate,
		Description: q.Description,
		OrderBy:     q.OrderBy,
		Page:        q.Page,
		PageSize:    q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, books, total, q.Page, q.PageSize)
}

// GetBook 查询单本图书
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "图书不存在(code=40402)"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	book, err := h.listBooksUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, book)
}

// UpdateBook 更新图书信息
// @Summary      更新图书
// @Description  仅更新基本信息,登记号与书架引用不可修改
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "图书信息"
// @Success      200 {object} response.Response
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	pubDate, err := parsePubDate(req.PubDate)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的出版日期")
		return
	}

	err = h.manageBookUseCase.Update(c.Request.Context(), appbook.UpdateBookRequest{
		BookID:      id,
		Name:        req.Name,
		Description: req.Description,
		PageCount:   req.PageCount,
		PubDate:     pubDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  被流转日志引用的图书禁止删除
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "图书仍被引用(code=40014)"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.manageBookUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
