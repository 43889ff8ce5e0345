package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookhouse/internal/domain/circulation"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// journalRepository 流转日志仓储实现(MySQL)
// 设计说明:
// 1. 日志仅追加:除CloseOpenEntries翻转Returned标志外,不提供更新和删除
// 2. 借还事务中由TxManager注入事务DB,保证日志与图书状态同生共死
type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository 创建流转日志仓储
func NewJournalRepository(db *gorm.DB) circulation.Repository {
	return &journalRepository{db: db}
}

// Append 追加一条流转日志
func (r *journalRepository) Append(ctx context.Context, entry *circulation.MoveBookJournal) error {
	model := &MoveBookJournalModel{
		BookID:            entry.BookID,
		FromShelfID:       entry.FromShelfID,
		ToShelfID:         entry.ToShelfID,
		DateTimeMove:      entry.DateTimeMove,
		LibrarianID:       entry.LibrarianID,
		ReaderID:          entry.ReaderID,
		OutsideTheLibrary: entry.OutsideTheLibrary,
		Returned:          entry.Returned,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "追加流转日志失败")
	}
	entry.ID = model.ID
	return nil
}

// CountOpen 统计未归还日志数
// 匹配条件:同读者、同图书、同外借标志、Returned=false
func (r *journalRepository) CountOpen(ctx context.Context, readerID, bookID uint, outsideTheLibrary bool) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&MoveBookJournalModel{}).
		Where("reader_id = ? AND book_id = ? AND outside_the_library = ? AND returned = ?",
			readerID, bookID, outsideTheLibrary, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计未归还日志失败")
	}
	return count, nil
}

// CloseOpenEntries 关闭匹配的未归还日志
// 正常只有一行,定义为关闭全部匹配行以对重复未归还行幂等
func (r *journalRepository) CloseOpenEntries(ctx context.Context, readerID, bookID uint) (int64, error) {
	result := getDB(ctx, r.db).Model(&MoveBookJournalModel{}).
		Where("reader_id = ? AND book_id = ? AND outside_the_library = ? AND returned = ?",
			readerID, bookID, true, false).
		Update("returned", true)
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "关闭未归还日志失败")
	}
	return result.RowsAffected, nil
}

// HasOpenEntry 图书是否存在任何未归还日志
func (r *journalRepository) HasOpenEntry(ctx context.Context, bookID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&MoveBookJournalModel{}).
		Where("book_id = ? AND returned = ?", bookID, false).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询未归还日志失败")
	}
	return count > 0, nil
}

// List 分页查询流转日志,按流转时间倒序,附带图书名与经办人/读者姓名
func (r *journalRepository) List(ctx context.Context, params circulation.ListParams) ([]*circulation.EntryWithNames, int64, error) {
	var models []MoveBookJournalModel
	var total int64

	db := getDB(ctx, r.db)
	query := db.Model(&MoveBookJournalModel{})
	if params.BookID > 0 {
		query = query.Where("book_id = ?", params.BookID)
	}
	if params.ReaderID > 0 {
		query = query.Where("reader_id = ?", params.ReaderID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询流转日志总数失败")
	}

	err := applyPage(query.Order("date_time_move DESC, id DESC"), params.Page, params.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询流转日志列表失败")
	}

	// 批量回填关联名称,避免逐行查询
	bookIDs := make([]uint, 0, len(models))
	librarianIDs := make([]uint, 0, len(models))
	readerIDs := make([]uint, 0, len(models))
	for i := range models {
		bookIDs = append(bookIDs, models[i].BookID)
		librarianIDs = append(librarianIDs, models[i].LibrarianID)
		if models[i].ReaderID != nil {
			readerIDs = append(readerIDs, *models[i].ReaderID)
		}
	}

	bookNames, err := r.loadNames(db, &BookModel{}, "name", bookIDs)
	if err != nil {
		return nil, 0, err
	}
	librarianNames, err := r.loadNames(db, &LibrarianModel{}, "fio", librarianIDs)
	if err != nil {
		return nil, 0, err
	}
	readerNames, err := r.loadNames(db, &ReaderModel{}, "fio", readerIDs)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]*circulation.EntryWithNames, len(models))
	for i := range models {
		entry := &circulation.EntryWithNames{
			MoveBookJournal: *toJournalEntity(&models[i]),
			BookName:        bookNames[models[i].BookID],
			LibrarianFIO:    librarianNames[models[i].LibrarianID],
		}
		if models[i].ReaderID != nil {
			entry.ReaderFIO = readerNames[*models[i].ReaderID]
		}
		entries[i] = entry
	}
	return entries, total, nil
}

// loadNames 按ID批量查询名称列,返回ID→名称映射
func (r *journalRepository) loadNames(db *gorm.DB, model interface{}, column string, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uint
		Name string
	}
	err := db.Model(model).Select("id, "+column+" AS name").Where("id IN ?", ids).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询流转日志关联名称失败")
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

// toJournalEntity GORM模型 → 领域实体
func toJournalEntity(model *MoveBookJournalModel) *circulation.MoveBookJournal {
	return &circulation.MoveBookJournal{
		ID:                model.ID,
		BookID:            model.BookID,
		FromShelfID:       model.FromShelfID,
		ToShelfID:         model.ToShelfID,
		DateTimeMove:      model.DateTimeMove,
		LibrarianID:       model.LibrarianID,
		ReaderID:          model.ReaderID,
		OutsideTheLibrary: model.OutsideTheLibrary,
		Returned:          model.Returned,
	}
}
