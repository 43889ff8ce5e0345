package handler

import (
	"github.com/gin-gonic/gin"

	appreporting "github.com/xiebiao/bookhouse/internal/application/reporting"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
	"github.com/xiebiao/bookhouse/pkg/response"
)

// ReportingHandler 报表HTTP处理器
// 报表只读、现算,不依赖任何缓存
type ReportingHandler struct {
	reportsUseCase *appreporting.ReportsUseCase
}

// NewReportingHandler 创建报表处理器
func NewReportingHandler(reportsUseCase *appreporting.ReportsUseCase) *ReportingHandler {
	return &ReportingHandler{reportsUseCase: reportsUseCase}
}

// CountBooksByAuthor 统计作者名下的图书数
// @Summary      作者图书数
// @Description  按姓名精确匹配,同名作者合并计数
// @Tags         报表
// @Produce      json
// @Param        fio query string true "作者姓名"
// @Success      200 {object} response.Response
// @Router       /api/v1/reports/books-by-author [get]
func (h *ReportingHandler) CountBooksByAuthor(c *gin.Context) {
	fio := c.Query("fio")
	if fio == "" {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "缺少作者姓名")
		return
	}
	count, err := h.reportsUseCase.CountBooksByAuthor(c.Request.Context(), fio)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"author_fio": fio, "books": count})
}

// TopTenBooks 借出次数最多的前10本书
// @Summary      借出排行榜
// @Description  按未落架日志数降序,并列时按图书ID升序
// @Tags         报表
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /api/v1/reports/top-ten-books [get]
func (h *ReportingHandler) TopTenBooks(c *gin.Context) {
	rows, err := h.reportsUseCase.TopTenBooks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// BooksOnHandByReader 按读者分组统计未归还日志数
// @Summary      读者在借统计
// @Tags         报表
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /api/v1/reports/books-on-hand [get]
func (h *ReportingHandler) BooksOnHandByReader(c *gin.Context) {
	rows, err := h.reportsUseCase.CountBooksOnHandByReader(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// HallSummaries 大厅层级摘要
// @Summary      大厅层级摘要
// @Description  每个大厅的书柜编号与书架编号摘要(书架跨书柜平铺)
// @Tags         报表
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /api/v1/reports/hall-summaries [get]
func (h *ReportingHandler) HallSummaries(c *gin.Context) {
	rows, err := h.reportsUseCase.HallsWithCasesAndShelves(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// NeverTakenBooks 按出版类型列出从未被借出的图书
// @Summary      未借出图书
// @Tags         报表
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /api/v1/reports/never-taken-books [get]
func (h *ReportingHandler) NeverTakenBooks(c *gin.Context) {
	rows, err := h.reportsUseCase.PublicationsWithNeverTakenBooks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// ShelfHistory 每本书的归还落架历史
// @Summary      落架历史
// @Description  每本书历史上归还落架过的全部书架ID(去重)
// @Tags         报表
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /api/v1/reports/shelf-history [get]
func (h *ReportingHandler) ShelfHistory(c *gin.Context) {
	rows, err := h.reportsUseCase.ShelfHistoryByBook(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}
