package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookhouse/internal/domain/shelving"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// =========================================
// 大厅仓储
// =========================================

type hallRepository struct {
	db *gorm.DB
}

// NewHallRepository 创建大厅仓储
func NewHallRepository(db *gorm.DB) shelving.HallRepository {
	return &hallRepository{db: db}
}

// Create 创建大厅
func (r *hallRepository) Create(ctx context.Context, hall *shelving.BookHall) error {
	model := &BookHallModel{
		Name:        hall.Name,
		LibrarianID: hall.LibrarianID,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建大厅失败")
	}
	hall.ID = model.ID
	return nil
}

// FindByID 根据ID查找大厅
func (r *hallRepository) FindByID(ctx context.Context, id uint) (*shelving.BookHall, error) {
	var model BookHallModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shelving.ErrHallNotFound
		}
		return nil, apperrors.Wrap(err, "查询大厅失败")
	}
	return toHallEntity(&model), nil
}

// List 分页查询大厅列表
func (r *hallRepository) List(ctx context.Context, params shelving.ListParams) ([]*shelving.BookHall, int64, error) {
	var models []BookHallModel
	var total int64

	query := getDB(ctx, r.db).Model(&BookHallModel{})
	if params.Name != "" {
		query = query.Where("name LIKE ?", "%"+params.Name+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询大厅总数失败")
	}

	if params.OrderBy == "name_desc" {
		query = query.Order("name DESC")
	} else {
		query = query.Order("name ASC")
	}

	if err := applyPage(query, params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询大厅列表失败")
	}

	halls := make([]*shelving.BookHall, len(models))
	for i := range models {
		halls[i] = toHallEntity(&models[i])
	}
	return halls, total, nil
}

// Delete 删除大厅,仍有下属书柜时拒绝
func (r *hallRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)

	var cases int64
	if err := db.Model(&BookCaseModel{}).Where("hall_id = ?", id).Count(&cases).Error; err != nil {
		return apperrors.Wrap(err, "检查大厅引用失败")
	}
	if cases > 0 {
		return shelving.ErrHallReferenced
	}

	result := db.Delete(&BookHallModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除大厅失败")
	}
	if result.RowsAffected == 0 {
		return shelving.ErrHallNotFound
	}
	return nil
}

func toHallEntity(model *BookHallModel) *shelving.BookHall {
	return &shelving.BookHall{
		ID:          model.ID,
		Name:        model.Name,
		LibrarianID: model.LibrarianID,
	}
}

// =========================================
// 书柜仓储
// =========================================

type caseRepository struct {
	db *gorm.DB
}

// NewCaseRepository 创建书柜仓储
func NewCaseRepository(db *gorm.DB) shelving.CaseRepository {
	return &caseRepository{db: db}
}

// Create 创建书柜
// (number, hall)由复合唯一索引保证,重复时转换为业务错误
func (r *caseRepository) Create(ctx context.Context, bookCase *shelving.BookCase) error {
	model := &BookCaseModel{
		Number: bookCase.Number,
		HallID: bookCase.HallID,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return shelving.ErrCaseNumberDuplicate
		}
		return apperrors.Wrap(err, "创建书柜失败")
	}
	bookCase.ID = model.ID
	return nil
}

// FindByID 根据ID查找书柜
func (r *caseRepository) FindByID(ctx context.Context, id uint) (*shelving.BookCase, error) {
	var model BookCaseModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shelving.ErrCaseNotFound
		}
		return nil, apperrors.Wrap(err, "查询书柜失败")
	}
	return toCaseEntity(&model), nil
}

// ListByHall 列出大厅下属书柜,按编号升序
func (r *caseRepository) ListByHall(ctx context.Context, hallID uint) ([]*shelving.BookCase, error) {
	var models []BookCaseModel
	err := getDB(ctx, r.db).
		Where("hall_id = ?", hallID).
		Order("number ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询大厅书柜失败")
	}

	cases := make([]*shelving.BookCase, len(models))
	for i := range models {
		cases[i] = toCaseEntity(&models[i])
	}
	return cases, nil
}

// List 分页查询书柜列表
func (r *caseRepository) List(ctx context.Context, params shelving.ListParams) ([]*shelving.BookCase, int64, error) {
	var models []BookCaseModel
	var total int64

	query := getDB(ctx, r.db).Model(&BookCaseModel{})
	if params.Number > 0 {
		query = query.Where("number = ?", params.Number)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询书柜总数失败")
	}

	if params.OrderBy == "number_desc" {
		query = query.Order("number DESC")
	} else {
		query = query.Order("number ASC")
	}

	if err := applyPage(query, params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询书柜列表失败")
	}

	cases := make([]*shelving.BookCase, len(models))
	for i := range models {
		cases[i] = toCaseEntity(&models[i])
	}
	return cases, total, nil
}

// Delete 删除书柜,仍有下属书架时拒绝
func (r *caseRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)

	var shelves int64
	if err := db.Model(&BookShelfModel{}).Where("case_id = ?", id).Count(&shelves).Error; err != nil {
		return apperrors.Wrap(err, "检查书柜引用失败")
	}
	if shelves > 0 {
		return shelving.ErrCaseReferenced
	}

	result := db.Delete(&BookCaseModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除书柜失败")
	}
	if result.RowsAffected == 0 {
		return shelving.ErrCaseNotFound
	}
	return nil
}

func toCaseEntity(model *BookCaseModel) *shelving.BookCase {
	return &shelving.BookCase{
		ID:     model.ID,
		Number: model.Number,
		HallID: model.HallID,
	}
}

// =========================================
// 书架仓储
// =========================================

type shelfRepository struct {
	db *gorm.DB
}

// NewShelfRepository 创建书架仓储
func NewShelfRepository(db *gorm.DB) shelving.ShelfRepository {
	return &shelfRepository{db: db}
}

// Create 创建书架
func (r *shelfRepository) Create(ctx context.Context, shelf *shelving.BookShelf) error {
	model := &BookShelfModel{
		Number: shelf.Number,
		CaseID: shelf.CaseID,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return shelving.ErrShelfNumberDuplicate
		}
		return apperrors.Wrap(err, "创建书架失败")
	}
	shelf.ID = model.ID
	return nil
}

// FindByID 根据ID查找书架
func (r *shelfRepository) FindByID(ctx context.Context, id uint) (*shelving.BookShelf, error) {
	var model BookShelfModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shelving.ErrShelfNotFound
		}
		return nil, apperrors.Wrap(err, "查询书架失败")
	}
	return toShelfEntity(&model), nil
}

// ListByCase 列出书柜下属书架,按编号升序
func (r *shelfRepository) ListByCase(ctx context.Context, caseID uint) ([]*shelving.BookShelf, error) {
	var models []BookShelfModel
	err := getDB(ctx, r.db).
		Where("case_id = ?", caseID).
		Order("number ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询书柜书架失败")
	}

	shelves := make([]*shelving.BookShelf, len(models))
	for i := range models {
		shelves[i] = toShelfEntity(&models[i])
	}
	return shelves, nil
}

// List 分页查询书架列表
func (r *shelfRepository) List(ctx context.Context, params shelving.ListParams) ([]*shelving.BookShelf, int64, error) {
	var models []BookShelfModel
	var total int64

	query := getDB(ctx, r.db).Model(&BookShelfModel{})
	if params.Number > 0 {
		query = query.Where("number = ?", params.Number)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询书架总数失败")
	}

	if params.OrderBy == "number_desc" {
		query = query.Order("number DESC")
	} else {
		query = query.Order("number ASC")
	}

	if err := applyPage(query, params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询书架列表失败")
	}

	shelves := make([]*shelving.BookShelf, len(models))
	for i := range models {
		shelves[i] = toShelfEntity(&models[i])
	}
	return shelves, total, nil
}

// CountBooks 统计当前放在书架上的图书数
func (r *shelfRepository) CountBooks(ctx context.Context, shelfID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&BookModel{}).Where("shelf_id = ?", shelfID).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计书架图书数失败")
	}
	return count, nil
}

// FindFirstAvailable 首次适应选架
// 按书架ID升序扫描,返回第一个未满的书架
// 设计说明:
// 1. 候选书架行加排他锁,并发归还在这里串行化,防止同时选中同一书架超容
// 2. 计数查询在同一事务内执行,读到的是加锁后的一致快照
func (r *shelfRepository) FindFirstAvailable(ctx context.Context) (*shelving.BookShelf, error) {
	db := getDB(ctx, r.db)

	var models []BookShelfModel
	if err := withLock(db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "扫描书架失败")
	}

	for i := range models {
		var count int64
		err := db.Model(&BookModel{}).Where("shelf_id = ?", models[i].ID).Count(&count).Error
		if err != nil {
			return nil, apperrors.Wrap(err, "统计书架图书数失败")
		}
		if count < shelving.MaxBooksPerShelf {
			return toShelfEntity(&models[i]), nil
		}
	}

	return nil, shelving.ErrNoShelfAvailable
}

// Delete 删除书架,架上仍有图书或被流转日志引用时拒绝
func (r *shelfRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)

	var books int64
	if err := db.Model(&BookModel{}).Where("shelf_id = ?", id).Count(&books).Error; err != nil {
		return apperrors.Wrap(err, "检查书架引用失败")
	}
	if books > 0 {
		return shelving.ErrShelfReferenced
	}

	var journals int64
	err := db.Model(&MoveBookJournalModel{}).
		Where("from_book_shelf_id = ? OR to_book_shelf_id = ?", id, id).
		Count(&journals).Error
	if err != nil {
		return apperrors.Wrap(err, "检查书架引用失败")
	}
	if journals > 0 {
		return shelving.ErrShelfReferenced
	}

	result := db.Delete(&BookShelfModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除书架失败")
	}
	if result.RowsAffected == 0 {
		return shelving.ErrShelfNotFound
	}
	return nil
}

func toShelfEntity(model *BookShelfModel) *shelving.BookShelf {
	return &shelving.BookShelf{
		ID:     model.ID,
		Number: model.Number,
		CaseID: model.CaseID,
	}
}
