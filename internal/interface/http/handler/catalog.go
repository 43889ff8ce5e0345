package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	"github.com/xiebiao/bookhouse/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
	"github.com/xiebiao/bookhouse/pkg/response"
)

// CatalogHandler 目录HTTP处理器
// 作者/出版类型/管理员/读者是无业务规则的参照数据,
// 处理器直连仓储,不经过应用层用例
type CatalogHandler struct {
	authorRepo    catalog.AuthorRepository
	pubTypeRepo   catalog.PublicationTypeRepository
	librarianRepo catalog.LibrarianRepository
	readerRepo    catalog.ReaderRepository
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(
	authorRepo catalog.AuthorRepository,
	pubTypeRepo catalog.PublicationTypeRepository,
	librarianRepo catalog.LibrarianRepository,
	readerRepo catalog.ReaderRepository,
) *CatalogHandler {
	return &CatalogHandler{
		authorRepo:    authorRepo,
		pubTypeRepo:   pubTypeRepo,
		librarianRepo: librarianRepo,
		readerRepo:    readerRepo,
	}
}

// parseID 解析路径中的ID参数
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// bindListQuery 绑定目录列表查询参数
func bindListQuery(c *gin.Context) (catalog.ListParams, bool) {
	var q dto.CatalogListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return catalog.ListParams{}, false
	}
	return catalog.ListParams{
		FIO:      q.FIO,
		Name:     q.Name,
		OrderBy:  q.OrderBy,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, true
}

// CreateAuthor 创建作者
// @Summary      创建作者
// @Tags         目录
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePersonRequest true "作者信息"
// @Success      200 {object} response.Response{data=dto.PersonResponse}
// @Router       /api/v1/authors [post]
func (h *CatalogHandler) CreateAuthor(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	author := &catalog.Author{FIO: req.FIO}
	if err := h.authorRepo.Create(c.Request.Context(), author); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.PersonResponse{ID: author.ID, FIO: author.FIO})
}

// ListAuthors 查询作者列表
// @Summary      作者列表
// @Tags         目录
// @Produce      json
// @Param        fio query string false "按姓名过滤"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/authors [get]
func (h *CatalogHandler) ListAuthors(c *gin.Context) {
	params, ok := bindListQuery(c)
	if !ok {
		return
	}
	authors, total, err := h.authorRepo.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	list := make([]dto.PersonResponse, len(authors))
	for i, a := range authors {
		list[i] = dto.PersonResponse{ID: a.ID, FIO: a.FIO}
	}
	response.SuccessWithPage(c, list, total, params.Page, params.PageSize)
}

// DeleteAuthor 删除作者
// @Summary      删除作者
// @Description  仍被图书引用的作者禁止删除
// @Tags         目录
// @Produce      json
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/authors/{id} [delete]
func (h *CatalogHandler) DeleteAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.authorRepo.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreatePublicationType 创建出版类型
// @Summary      创建出版类型
// @Tags         目录
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePublicationTypeRequest true "出版类型"
// @Success      200 {object} response.Response{data=dto.PublicationTypeResponse}
// @Router       /api/v1/publication-types [post]
func (h *CatalogHandler) CreatePublicationType(c *gin.Context) {
	var req dto.CreatePublicationTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	pt := &catalog.PublicationType{Name: req.Name}
	if err := h.pubTypeRepo.Create(c.Request.Context(), pt); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.PublicationTypeResponse{ID: pt.ID, Name: pt.Name})
}

// ListPublicationTypes 查询出版类型列表
// @Summary      出版类型列表
// @Tags         目录
// @Produce      json
// @Param        name query string false "按名称过滤"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/publication-types [get]
func (h *CatalogHandler) ListPublicationTypes(c *gin.Context) {
	params, ok := bindListQuery(c)
	if !ok {
		return
	}
	types, total, err := h.pubTypeRepo.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	list := make([]dto.PublicationTypeResponse, len(types))
	for i, pt := range types {
		list[i] = dto.PublicationTypeResponse{ID: pt.ID, Name: pt.Name}
	}
	response.SuccessWithPage(c, list, total, params.Page, params.PageSize)
}

// DeletePublicationType 删除出版类型
// @Summary      删除出版类型
// @Description  删除后其下图书的类型引用置空(set-null),图书本身保留
// @Tags         目录
// @Produce      json
// @Param        id path int true "出版类型ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/publication-types/{id} [delete]
func (h *CatalogHandler) DeletePublicationType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.pubTypeRepo.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateLibrarian 创建图书管理员
// @Summary      创建图书管理员
// @Description  管理员姓名全馆唯一,重名返回唯一性冲突错误
// @Tags         目录
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePersonRequest true "管理员信息"
// @Success      200 {object} response.Response{data=dto.PersonResponse}
// @Router       /api/v1/librarians [post]
func (h *CatalogHandler) CreateLibrarian(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	librarian := &catalog.Librarian{FIO: req.FIO}
	if err := h.librarianRepo.Create(c.Request.Context(), librarian); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.PersonResponse{ID: librarian.ID, FIO: librarian.FIO})
}

// ListLibrarians 查询管理员列表
// @Summary      管理员列表
// @Tags         目录
// @Produce      json
// @Param        fio query string false "按姓名过滤"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/librarians [get]
func (h *CatalogHandler) ListLibrarians(c *gin.Context) {
	params, ok := bindListQuery(c)
	if !ok {
		return
	}
	librarians, total, err := h.librarianRepo.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	list := make([]dto.PersonResponse, len(librarians))
	for i, l := range librarians {
		list[i] = dto.PersonResponse{ID: l.ID, FIO: l.FIO}
	}
	response.SuccessWithPage(c, list, total, params.Page, params.PageSize)
}

// DeleteLibrarian 删除管理员
// @Summary      删除管理员
// @Description  被大厅或流转日志引用的管理员禁止删除
// @Tags         目录
// @Produce      json
// @Param        id path int true "管理员ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/librarians/{id} [delete]
func (h *CatalogHandler) DeleteLibrarian(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.librarianRepo.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateReader 创建读者
// @Summary      创建读者
// @Tags         目录
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePersonRequest true "读者信息"
// @Success      200 {object} response.Response{data=dto.PersonResponse}
// @Router       /api/v1/readers [post]
func (h *CatalogHandler) CreateReader(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	reader := &catalog.Reader{FIO: req.FIO}
	if err := h.readerRepo.Create(c.Request.Context(), reader); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.PersonResponse{ID: reader.ID, FIO: reader.FIO})
}

// ListReaders 查询读者列表
// @Summary      读者列表
// @Tags         目录
// @Produce      json
// @Param        fio query string false "按姓名过滤"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/readers [get]
func (h *CatalogHandler) ListReaders(c *gin.Context) {
	params, ok := bindListQuery(c)
	if !ok {
		return
	}
	readers, total, err := h.readerRepo.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	list := make([]dto.PersonResponse, len(readers))
	for i, r := range readers {
		list[i] = dto.PersonResponse{ID: r.ID, FIO: r.FIO}
	}
	response.SuccessWithPage(c, list, total, params.Page, params.PageSize)
}

// DeleteReader 删除读者
// @Summary      删除读者
// @Description  被流转日志引用的读者禁止删除
// @Tags         目录
// @Produce      json
// @Param        id path int true "读者ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/readers/{id} [delete]
func (h *CatalogHandler) DeleteReader(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.readerRepo.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
