package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookhouse/internal/domain/book"
	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如登记号重复),转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	db := getDB(ctx, r.db)

	// 1. 领域实体 → GORM模型(作者关联单独追加,避免upsert副作用)
	model := &BookModel{
		Name:              b.Name,
		PubDate:           b.PubDate,
		Number:            b.Number,
		PageCount:         b.PageCount,
		Description:       b.Description,
		PublicationTypeID: b.PublicationTypeID,
		ShelfID:           b.ShelfID,
	}

	// 2. 插入图书行
	if err := db.Omit("Authors").Create(model).Error; err != nil {
		// 检查是否为登记号重复错误
		if isDuplicateError(err) {
			return book.ErrNumberDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 追加作者关联(作者已存在,只写join表)
	if len(b.Authors) > 0 {
		authorModels := make([]AuthorModel, len(b.Authors))
		for i, a := range b.Authors {
			authorModels[i] = AuthorModel{ID: a.ID, FIO: a.FIO}
		}
		if err := db.Model(model).Omit("Authors.*").Association("Authors").Append(authorModels); err != nil {
			return apperrors.Wrap(err, "关联作者失败")
		}
	}

	// 4. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书(含作者集合)
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Preload("Authors").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByNumber 根据登记号查找图书
func (r *bookRepository) FindByNumber(ctx context.Context, number uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Preload("Authors").Where("number = ?", number).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新图书基本信息(不触碰作者集合与书架引用)
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"name":                b.Name,
			"pub_date":            b.PubDate,
			"page_count":          b.PageCount,
			"description":         b.Description,
			"publication_type_id": b.PublicationTypeID,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// UpdateShelf 更新图书的书架引用(流转引擎专用,必须在事务内调用)
func (r *bookRepository) UpdateShelf(ctx context.Context, bookID uint, shelfID *uint) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", bookID).
		Update("shelf_id", shelfID)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书书架失败")
	}
	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := getDB(ctx, r.db).Model(&BookModel{})

	if params.Name != "" {
		query = query.Where("name LIKE ?", "%"+params.Name+"%")
	}
	if params.PubDate != "" {
		query = query.Where("pub_date = ?", params.PubDate)
	}
	if params.Description != "" {
		query = query.Where("description LIKE ?", "%"+params.Description+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	switch params.OrderBy {
	case "name_desc":
		query = query.Order("name DESC")
	case "pub_date_asc":
		query = query.Order("pub_date ASC")
	case "pub_date_desc":
		query = query.Order("pub_date DESC")
	default:
		query = query.Order("name ASC")
	}

	err := applyPage(query, params.Page, params.PageSize).Preload("Authors").Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// LockByID 悲观锁查询图书(用于借还事务)
// SELECT FOR UPDATE锁定行,必须在事务内调用
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := withLock(getDB(ctx, r.db)).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// CountByShelf 统计指定书架上的图书数
func (r *bookRepository) CountByShelf(ctx context.Context, shelfID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&BookModel{}).Where("shelf_id = ?", shelfID).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计书架图书数失败")
	}
	return count, nil
}

// Delete 删除图书,被流转日志引用时拒绝
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)

	var refs int64
	if err := db.Model(&MoveBookJournalModel{}).Where("book_id = ?", id).Count(&refs).Error; err != nil {
		return apperrors.Wrap(err, "检查图书引用失败")
	}
	if refs > 0 {
		return book.ErrBookReferenced
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// 先清掉作者join行,再删图书
		if err := tx.Model(&BookModel{ID: id}).Association("Authors").Clear(); err != nil {
			return apperrors.Wrap(err, "清除作者关联失败")
		}
		result := tx.Delete(&BookModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "删除图书失败")
		}
		if result.RowsAffected == 0 {
			return book.ErrBookNotFound
		}
		return nil
	})
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	authors := make([]catalog.Author, len(model.Authors))
	for i, a := range model.Authors {
		authors[i] = catalog.Author{ID: a.ID, FIO: a.FIO}
	}
	return &book.Book{
		ID:                model.ID,
		Name:              model.Name,
		PubDate:           model.PubDate,
		Number:            model.Number,
		PageCount:         model.PageCount,
		Description:       model.Description,
		PublicationTypeID: model.PublicationTypeID,
		Authors:           authors,
		ShelfID:           model.ShelfID,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
