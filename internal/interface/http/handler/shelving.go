package handler

import (
	"github.com/gin-gonic/gin"

	appshelving "github.com/xiebiao/bookhouse/internal/application/shelving"
	"github.com/xiebiao/bookhouse/internal/domain/shelving"
	"github.com/xiebiao/bookhouse/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
	"github.com/xiebiao/bookhouse/pkg/response"
)

// ShelvingHandler 书库层级HTTP处理器(大厅/书柜/书架)
type ShelvingHandler struct {
	hallUseCase  *appshelving.HallUseCase
	caseUseCase  *appshelving.CaseUseCase
	shelfUseCase *appshelving.ShelfUseCase
}

// NewShelvingHandler 创建书库层级处理器
func NewShelvingHandler(
	hallUseCase *appshelving.HallUseCase,
	caseUseCase *appshelving.CaseUseCase,
	shelfUseCase *appshelving.ShelfUseCase,
) *ShelvingHandler {
	return &ShelvingHandler{
		hallUseCase:  hallUseCase,
		caseUseCase:  caseUseCase,
		shelfUseCase: shelfUseCase,
	}
}

// bindShelvingQuery 绑定层级列表查询参数
func bindShelvingQuery(c *gin.Context) (shelving.ListParams, bool) {
	var q dto.ShelvingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return shelving.ListParams{}, false
	}
	return shelving.ListParams{
		Name:     q.Name,
		Number:   q.Number,
		OrderBy:  q.OrderBy,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, true
}

// CreateHall 创建大厅
// @Summary      创建大厅
// @Description  负责管理员按姓名嵌套录入(存在则复用)
// @Tags         书库层级
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateHallRequest true "大厅信息"
// @Success      200 {object} response.Response
// @Router       /api/v1/halls [post]
func (h *ShelvingHandler) CreateHall(c *gin.Context) {
	var req dto.CreateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	hall, err := h.hallUseCase.Create(c.Request.Context(), appshelving.CreateHallRequest{
		Name:         req.Name,
		LibrarianFIO: req.LibrarianFIO,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, hall)
}

// ListHalls 查询大厅列表
// @Summary      大厅列表
// @Tags         书库层级
// @Produce      json
// @Param        name query string false "按名称过滤"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/halls [get]
func (h *ShelvingHandler) ListHalls(c *gin.Context) {
	params, ok := bindShelvingQuery(c)
	if !ok {
		return
	}
	halls, total, err := h.hallUseCase.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, halls, total, params.Page, params.PageSize)
}

// ListHallCases 查询大厅下属书柜
// @Summary      大厅下属书柜
// @Tags         书库层级
// @Produce      json
// @Param        id path int true "大厅ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/halls/{id}/cases [get]
func (h *ShelvingHandler) ListHallCases(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cases, err := h.hallUseCase.ListCases(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cases)
}

// DeleteHall 删除大厅
// @Summary      删除大厅
// @Description  仍有下属书柜的大厅禁止删除
// @Tags         书库层级
// @Produce      json
// @Param        id path int true "大厅ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/halls/{id} [delete]
func (h *ShelvingHandler) DeleteHall(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.hallUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateCase 创建书柜
// @Summary      创建书柜
// @Description  编号在大厅范围内唯一,重复返回唯一性冲突错误
// @Tags         书库层级
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCaseRequest true "书柜信息"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "编号重复(code=40010)"
// @Router       /api/v1/cases [post]
func (h *ShelvingHandler) CreateCase(c *gin.Context) {
	var req dto.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	bookCase, err := h.caseUseCase.Create(c.Request.Context(), appshelving.CreateCaseRequest{
		Number: req.Number,
		HallID: req.HallID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, bookCase)
}

// ListCases 查询书柜列表
// @Summary      书柜列表
// @Tags         书库层级
// @Produce      json
// @Param        number query int false "按编号过滤"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/cases [get]
func (h *ShelvingHandler) ListCases(c *gin.Context) {
	params, ok := bindShelvingQuery(c)
	if !ok {
		return
	}
	cases, total, err := h.caseUseCase.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, cases, total, params.Page, params.PageSize)
}

// ListCaseShelves 查询书柜下属书架
// @Summary      书柜下属书架
// @Tags         书库层级
// @Produce      json
// @Param        id path int true "书柜ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/cases/{id}/shelves [get]
func (h *ShelvingHandler) ListCaseShelves(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	shelves, err := h.caseUseCase.ListShelves(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, shelves)
}

// DeleteCase 删除书柜
// @Summary      删除书柜
// @Description  仍有下属书架的书柜禁止删除
// @Tags         书库层级
// @Produce      json
// @Param        id path int true "书柜ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/cases/{id} [delete]
func (h *ShelvingHandler) DeleteCase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.caseUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateShelf 创建书架
// @Summary      创建书架
// @Description  编号在书柜范围内唯一,重复返回唯一性冲突错误
// @Tags         书库层级
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateShelfRequest true "书架信息"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "编号重复(code=40010)"
// @Router       /api/v1/shelves [post]
func (h *ShelvingHandler) CreateShelf(c *gin.Context) {
	var req dto.CreateShelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	shelf, err := h.shelfUseCase.Create(c.Request.Context(), appshelving.CreateShelfRequest{
		Number: req.Number,
		CaseID: req.CaseID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, shelf)
}

// GetShelf 查询书架详情
// @Summary      书架详情(含在架图书数)
// @Tags         书库层级
// @Produce      json
// @Param        id path int true "书架ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/shelves/{id} [get]
func (h *ShelvingHandler) GetShelf(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	shelf, err := h.shelfUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, shelf)
}

// ListShelves 查询书架列表
// @Summary      书架列表
// @Tags         书库层级
// @Produce      json
// @Param        number query int false "按编号过滤"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/shelves [get]
func (h *ShelvingHandler) ListShelves(c *gin.Context) {
	params, ok := bindShelvingQuery(c)
	if !ok {
		return
	}
	shelves, total, err := h.shelfUseCase.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, shelves, total, params.Page, params.PageSize)
}

// DeleteShelf 删除书架
// @Summary      删除书架
// @Description  架上仍有图书或被流转日志引用的书架禁止删除
// @Tags         书库层级
// @Produce      json
// @Param        id path int true "书架ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/shelves/{id} [delete]
func (h *ShelvingHandler) DeleteShelf(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.shelfUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
