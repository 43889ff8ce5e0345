package handler

import (
	"github.com/gin-gonic/gin"

	appcirculation "github.com/xiebiao/bookhouse/internal/application/circulation"
	"github.com/xiebiao/bookhouse/internal/domain/circulation"
	"github.com/xiebiao/bookhouse/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
	"github.com/xiebiao/bookhouse/pkg/response"
)

// CirculationHandler 流转HTTP处理器(借出/归还/日志)
type CirculationHandler struct {
	checkOutUseCase *appcirculation.CheckOutBookUseCase
	returnUseCase   *appcirculation.ReturnBookUseCase
	journalRepo     circulation.Repository
}

// NewCirculationHandler 创建流转处理器
func NewCirculationHandler(
	checkOutUseCase *appcirculation.CheckOutBookUseCase,
	returnUseCase *appcirculation.ReturnBookUseCase,
	journalRepo circulation.Repository,
) *CirculationHandler {
	return &CirculationHandler{
		checkOutUseCase: checkOutUseCase,
		returnUseCase:   returnUseCase,
		journalRepo:     journalRepo,
	}
}

// CheckOut 借出图书
// @Summary      借出图书
// @Description  在架图书借给读者,书架引用置空并追加借出日志
// @Tags         流转
// @Accept       json
// @Produce      json
// @Param        request body dto.CheckOutRequest true "借出信息"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "图书已被借出(code=40011)/借阅超限(code=40012)"
// @Router       /api/v1/circulation/check-out [post]
func (h *CirculationHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.checkOutUseCase.Execute(c.Request.Context(), appcirculation.CheckOutBookRequest{
		BookID:            req.BookID,
		ReaderID:          req.ReaderID,
		LibrarianID:       req.LibrarianID,
		OutsideTheLibrary: req.OutsideTheLibrary,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Return 归还图书
// @Summary      归还图书
// @Description  落架书架由系统按首次适应自动分配,全馆书架已满时归还失败
// @Tags         流转
// @Accept       json
// @Produce      json
// @Param        request body dto.ReturnRequest true "归还信息"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "没有可用书架(code=40013)"
// @Router       /api/v1/circulation/return [post]
func (h *CirculationHandler) Return(c *gin.Context) {
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.returnUseCase.Execute(c.Request.Context(), appcirculation.ReturnBookRequest{
		BookID:      req.BookID,
		ReaderID:    req.ReaderID,
		LibrarianID: req.LibrarianID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListJournal 查询流转日志
// @Summary      流转日志列表
// @Description  仅追加的日志,按流转时间倒序
// @Tags         流转
// @Produce      json
// @Param        book_id query int false "按图书过滤"
// @Param        reader_id query int false "按读者过滤"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/circulation/journal [get]
func (h *CirculationHandler) ListJournal(c *gin.Context) {
	var q dto.JournalListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	entries, total, err := h.journalRepo.List(c.Request.Context(), circulation.ListParams{
		BookID:   q.BookID,
		ReaderID: q.ReaderID,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.JournalResponse, len(entries))
	for i, e := range entries {
		list[i] = dto.JournalResponse{
			ID:                e.ID,
			BookID:            e.BookID,
			BookName:          e.BookName,
			FromShelfID:       e.FromShelfID,
			ToShelfID:         e.ToShelfID,
			DateTimeMove:      e.DateTimeMove.Format("2006-01-02 15:04:05"),
			LibrarianID:       e.LibrarianID,
			LibrarianFIO:      e.LibrarianFIO,
			ReaderID:          e.ReaderID,
			ReaderFIO:         e.ReaderFIO,
			OutsideTheLibrary: e.OutsideTheLibrary,
			Returned:          e.Returned,
		}
	}
	response.SuccessWithPage(c, list, total, q.Page, q.PageSize)
}
