package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// 目录仓储实现(MySQL)
// 四个参照实体的仓储都在本文件:结构高度一致,只有自然键与保护删除规则不同

// =========================================
// 作者仓储
// =========================================

type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) catalog.AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, a *catalog.Author) error {
	model := &AuthorModel{FIO: a.FIO}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建作者失败")
	}
	a.ID = model.ID
	return nil
}

func (r *authorRepository) FindByID(ctx context.Context, id uint) (*catalog.Author, error) {
	var model AuthorModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrAuthorNotFound
		}
		return nil, apperrors.Wrap(err, "查询作者失败")
	}
	return &catalog.Author{ID: model.ID, FIO: model.FIO}, nil
}

// FindOrCreate 按姓名查找,不存在则创建(录入边界的嵌套载荷专用)
func (r *authorRepository) FindOrCreate(ctx context.Context, fio string) (*catalog.Author, error) {
	db := getDB(ctx, r.db)

	var model AuthorModel
	err := db.Where("fio = ?", fio).First(&model).Error
	if err == nil {
		return &catalog.Author{ID: model.ID, FIO: model.FIO}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, "查询作者失败")
	}

	model = AuthorModel{FIO: fio}
	if err := db.Create(&model).Error; err != nil {
		return nil, apperrors.Wrap(err, "创建作者失败")
	}
	return &catalog.Author{ID: model.ID, FIO: model.FIO}, nil
}

func (r *authorRepository) List(ctx context.Context, params catalog.ListParams) ([]*catalog.Author, int64, error) {
	var models []AuthorModel
	var total int64

	query := getDB(ctx, r.db).Model(&AuthorModel{})
	if params.FIO != "" {
		query = query.Where("fio = ?", params.FIO)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询作者总数失败")
	}

	query = applyFIOOrder(query, params.OrderBy)
	if err := applyPage(query, params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询作者列表失败")
	}

	authors := make([]*catalog.Author, len(models))
	for i, m := range models {
		authors[i] = &catalog.Author{ID: m.ID, FIO: m.FIO}
	}
	return authors, total, nil
}

// Delete 删除作者,仍被图书引用时拒绝
func (r *authorRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)

	var refs int64
	if err := db.Table("book_authors").Where("author_id = ?", id).Count(&refs).Error; err != nil {
		return apperrors.Wrap(err, "检查作者引用失败")
	}
	if refs > 0 {
		return catalog.ErrAuthorReferenced
	}

	result := db.Delete(&AuthorModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除作者失败")
	}
	if result.RowsAffected == 0 {
		return catalog.ErrAuthorNotFound
	}
	return nil
}

// =========================================
// 出版类型仓储
// =========================================

type publicationTypeRepository struct {
	db *gorm.DB
}

// NewPublicationTypeRepository 创建出版类型仓储
func NewPublicationTypeRepository(db *gorm.DB) catalog.PublicationTypeRepository {
	return &publicationTypeRepository{db: db}
}

func (r *publicationTypeRepository) Create(ctx context.Context, pt *catalog.PublicationType) error {
	model := &PublicationTypeModel{Name: pt.Name}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建出版类型失败")
	}
	pt.ID = model.ID
	return nil
}

func (r *publicationTypeRepository) FindByID(ctx context.Context, id uint) (*catalog.PublicationType, error) {
	var model PublicationTypeModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrPublicationTypeNotFound
		}
		return nil, apperrors.Wrap(err, "查询出版类型失败")
	}
	return &catalog.PublicationType{ID: model.ID, Name: model.Name}, nil
}

func (r *publicationTypeRepository) FindOrCreate(ctx context.Context, name string) (*catalog.PublicationType, error) {
	db := getDB(ctx, r.db)

	var model PublicationTypeModel
	err := db.Where("name = ?", name).First(&model).Error
	if err == nil {
		return &catalog.PublicationType{ID: model.ID, Name: model.Name}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, "查询出版类型失败")
	}

	model = PublicationTypeModel{Name: name}
	if err := db.Create(&model).Error; err != nil {
		return nil, apperrors.Wrap(err, "创建出版类型失败")
	}
	return &catalog.PublicationType{ID: model.ID, Name: model.Name}, nil
}

func (r *publicationTypeRepository) List(ctx context.Context, params catalog.ListParams) ([]*catalog.PublicationType, int64, error) {
	var models []PublicationTypeModel
	var total int64

	query := getDB(ctx, r.db).Model(&PublicationTypeModel{})
	if params.Name != "" {
		query = query.Where("name = ?", params.Name)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询出版类型总数失败")
	}

	switch params.OrderBy {
	case "name_desc":
		query = query.Order("name DESC")
	default:
		query = query.Order("name ASC")
	}
	if err := applyPage(query, params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询出版类型列表失败")
	}

	types := make([]*catalog.PublicationType, len(models))
	for i, m := range models {
		types[i] = &catalog.PublicationType{ID: m.ID, Name: m.Name}
	}
	return types, total, nil
}

// Delete 删除出版类型
// 与保护删除不同:依赖图书的类型引用置空后再删除,两步在同一事务内
func (r *publicationTypeRepository) Delete(ctx context.Context, id uint) error {
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&BookModel{}).
			Where("publication_type_id = ?", id).
			Update("publication_type_id", nil).Error; err != nil {
			return apperrors.Wrap(err, "置空图书类型引用失败")
		}

		result := tx.Delete(&PublicationTypeModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "删除出版类型失败")
		}
		if result.RowsAffected == 0 {
			return catalog.ErrPublicationTypeNotFound
		}
		return nil
	})
}

// =========================================
// 图书管理员仓储
// =========================================

type librarianRepository struct {
	db *gorm.DB
}

// NewLibrarianRepository 创建管理员仓储
func NewLibrarianRepository(db *gorm.DB) catalog.LibrarianRepository {
	return &librarianRepository{db: db}
}

func (r *librarianRepository) Create(ctx context.Context, l *catalog.Librarian) error {
	model := &LibrarianModel{FIO: l.FIO}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return catalog.ErrLibrarianFIODuplicate
		}
		return apperrors.Wrap(err, "创建管理员失败")
	}
	l.ID = model.ID
	return nil
}

func (r *librarianRepository) FindByID(ctx context.Context, id uint) (*catalog.Librarian, error) {
	var model LibrarianModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrLibrarianNotFound
		}
		return nil, apperrors.Wrap(err, "查询管理员失败")
	}
	return &catalog.Librarian{ID: model.ID, FIO: model.FIO}, nil
}

func (r *librarianRepository) FindOrCreate(ctx context.Context, fio string) (*catalog.Librarian, error) {
	db := getDB(ctx, r.db)

	var model LibrarianModel
	err := db.Where("fio = ?", fio).First(&model).Error
	if err == nil {
		return &catalog.Librarian{ID: model.ID, FIO: model.FIO}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, "查询管理员失败")
	}

	model = LibrarianModel{FIO: fio}
	if err := db.Create(&model).Error; err != nil {
		// 并发FindOrCreate可能撞上唯一索引,重查一次
		if isDuplicateError(err) {
			if err := db.Where("fio = ?", fio).First(&model).Error; err != nil {
				return nil, apperrors.Wrap(err, "查询管理员失败")
			}
			return &catalog.Librarian{ID: model.ID, FIO: model.FIO}, nil
		}
		return nil, apperrors.Wrap(err, "创建管理员失败")
	}
	return &catalog.Librarian{ID: model.ID, FIO: model.FIO}, nil
}

func (r *librarianRepository) List(ctx context.Context, params catalog.ListParams) ([]*catalog.Librarian, int64, error) {
	var models []LibrarianModel
	var total int64

	query := getDB(ctx, r.db).Model(&LibrarianModel{})
	if params.FIO != "" {
		query = query.Where("fio = ?", params.FIO)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询管理员总数失败")
	}

	query = applyFIOOrder(query, params.OrderBy)
	if err := applyPage(query, params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询管理员列表失败")
	}

	librarians := make([]*catalog.Librarian, len(models))
	for i, m := range models {
		librarians[i] = &catalog.Librarian{ID: m.ID, FIO: m.FIO}
	}
	return librarians, total, nil
}

// Delete 删除管理员,被大厅或流转日志引用时拒绝
func (r *librarianRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)

	var hallRefs int64
	if err := db.Model(&BookHallModel{}).Where("librarian_id = ?", id).Count(&hallRefs).Error; err != nil {
		return apperrors.Wrap(err, "检查管理员引用失败")
	}
	var journalRefs int64
	if err := db.Model(&MoveBookJournalModel{}).Where("librarian_id = ?", id).Count(&journalRefs).Error; err != nil {
		return apperrors.Wrap(err, "检查管理员引用失败")
	}
	if hallRefs > 0 || journalRefs > 0 {
		return catalog.ErrLibrarianReferenced
	}

	result := db.Delete(&LibrarianModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除管理员失败")
	}
	if result.RowsAffected == 0 {
		return catalog.ErrLibrarianNotFound
	}
	return nil
}

// =========================================
// 读者仓储
// =========================================

type readerRepository struct {
	db *gorm.DB
}

// NewReaderRepository 创建读者仓储
func NewReaderRepository(db *gorm.DB) catalog.ReaderRepository {
	return &readerRepository{db: db}
}

func (r *readerRepository) Create(ctx context.Context, reader *catalog.Reader) error {
	model := &ReaderModel{FIO: reader.FIO}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建读者失败")
	}
	reader.ID = model.ID
	return nil
}

func (r *readerRepository) FindByID(ctx context.Context, id uint) (*catalog.Reader, error) {
	var model ReaderModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrReaderNotFound
		}
		return nil, apperrors.Wrap(err, "查询读者失败")
	}
	return &catalog.Reader{ID: model.ID, FIO: model.FIO}, nil
}

func (r *readerRepository) List(ctx context.Context, params catalog.ListParams) ([]*catalog.Reader, int64, error) {
	var models []ReaderModel
	var total int64

	query := getDB(ctx, r.db).Model(&ReaderModel{})
	if params.FIO != "" {
		query = query.Where("fio = ?", params.FIO)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询读者总数失败")
	}

	query = applyFIOOrder(query, params.OrderBy)
	if err := applyPage(query, params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询读者列表失败")
	}

	readers := make([]*catalog.Reader, len(models))
	for i, m := range models {
		readers[i] = &catalog.Reader{ID: m.ID, FIO: m.FIO}
	}
	return readers, total, nil
}

// Delete 删除读者,被流转日志引用时拒绝
func (r *readerRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)

	var refs int64
	if err := db.Model(&MoveBookJournalModel{}).Where("reader_id = ?", id).Count(&refs).Error; err != nil {
		return apperrors.Wrap(err, "检查读者引用失败")
	}
	if refs > 0 {
		return catalog.ErrReaderReferenced
	}

	result := db.Delete(&ReaderModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除读者失败")
	}
	if result.RowsAffected == 0 {
		return catalog.ErrReaderNotFound
	}
	return nil
}

// =========================================
// 辅助函数
// =========================================

// applyFIOOrder 按姓名排序(默认升序)
func applyFIOOrder(query *gorm.DB, orderBy string) *gorm.DB {
	switch orderBy {
	case "fio_desc":
		return query.Order("fio DESC")
	default:
		return query.Order("fio ASC")
	}
}

// applyPage 应用分页(Page从1开始,未设置时给默认值)
func applyPage(query *gorm.DB, page, pageSize int) *gorm.DB {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
