package mysql

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/xiebiao/bookhouse/internal/domain/reporting"
	"github.com/xiebiao/bookhouse/internal/domain/shelving"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// reportingQueries 报表查询实现(MySQL)
// 设计说明:
// 1. 只读查询,每次从当前数据现算,不缓存
// 2. 聚合尽量下推到SQL,字符串拼接类摘要在Go侧组装
// 3. 全部SQL同时兼容MySQL与SQLite方言
type reportingQueries struct {
	db *gorm.DB
}

// NewReportingQueries 创建报表查询
func NewReportingQueries(db *gorm.DB) reporting.Queries {
	return &reportingQueries{db: db}
}

// CountBooksByAuthor 统计作者名下的图书数(按姓名精确匹配)
// 同名作者合并计数,一本书挂多位同名作者时按join行数计
func (q *reportingQueries) CountBooksByAuthor(ctx context.Context, authorFIO string) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Table("book_authors").
		Joins("JOIN authors ON authors.id = book_authors.author_id").
		Where("authors.fio = ?", authorFIO).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计作者图书数失败")
	}
	return count, nil
}

// TopTenBooks 借出次数最多的前10本书
// 统计口径:to_book_shelf为空的日志数(借出后尚未落架)
// 并列时按图书ID升序保证结果稳定
func (q *reportingQueries) TopTenBooks(ctx context.Context) ([]reporting.BookCheckoutCount, error) {
	var rows []reporting.BookCheckoutCount
	err := q.db.WithContext(ctx).
		Table("move_book_journals").
		Select("move_book_journals.book_id AS book_id, books.name AS book_name, COUNT(*) AS checkouts").
		Joins("JOIN books ON books.id = move_book_journals.book_id").
		Where("move_book_journals.to_book_shelf_id IS NULL").
		Group("move_book_journals.book_id, books.name").
		Order("checkouts DESC, book_id ASC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询借出排行失败")
	}
	return rows, nil
}

// CountBooksOnHandByReader 按读者分组统计未归还日志数
func (q *reportingQueries) CountBooksOnHandByReader(ctx context.Context) ([]reporting.ReaderOnHandCount, error) {
	var rows []reporting.ReaderOnHandCount
	err := q.db.WithContext(ctx).
		Table("move_book_journals").
		Select("move_book_journals.reader_id AS reader_id, readers.fio AS reader_fio, COUNT(*) AS count").
		Joins("JOIN readers ON readers.id = move_book_journals.reader_id").
		Where("move_book_journals.returned = ?", false).
		Group("move_book_journals.reader_id, readers.fio").
		Order("count DESC, reader_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询读者在借数失败")
	}
	return rows, nil
}

// HallsWithCasesAndShelves 每个大厅的书柜编号摘要与书架编号摘要
// 书架编号跨书柜平铺拼接,不按柜分组
// GROUP_CONCAT在MySQL/SQLite间行为有差异,拼接在Go侧完成
func (q *reportingQueries) HallsWithCasesAndShelves(ctx context.Context) ([]reporting.HallSummary, error) {
	db := q.db.WithContext(ctx)

	var halls []BookHallModel
	if err := db.Order("id ASC").Find(&halls).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询大厅失败")
	}

	var cases []BookCaseModel
	if err := db.Order("hall_id ASC, number ASC").Find(&cases).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询书柜失败")
	}

	var shelves []BookShelfModel
	if err := db.Order("case_id ASC, number ASC").Find(&shelves).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询书架失败")
	}

	// 书柜ID → 所属大厅ID
	caseHall := make(map[uint]uint, len(cases))
	caseNumbers := make(map[uint][]uint)
	for _, c := range cases {
		caseHall[c.ID] = c.HallID
		caseNumbers[c.HallID] = append(caseNumbers[c.HallID], c.Number)
	}

	shelfNumbers := make(map[uint][]uint)
	for _, s := range shelves {
		hallID, ok := caseHall[s.CaseID]
		if !ok {
			continue
		}
		shelfNumbers[hallID] = append(shelfNumbers[hallID], s.Number)
	}

	summaries := make([]reporting.HallSummary, len(halls))
	for i, h := range halls {
		nums := shelfNumbers[h.ID]
		sort.Slice(nums, func(a, b int) bool { return nums[a] < nums[b] })
		summaries[i] = reporting.HallSummary{
			HallID:       h.ID,
			HallName:     h.Name,
			CaseNumbers:  shelving.JoinNumbers(caseNumbers[h.ID]),
			ShelfNumbers: shelving.JoinNumbers(nums),
		}
	}
	return summaries, nil
}

// PublicationsWithNeverTakenBooks 按出版类型列出从未被借出的图书
// "从未被借出"=不存在to_book_shelf为空的日志行
func (q *reportingQueries) PublicationsWithNeverTakenBooks(ctx context.Context) ([]reporting.PublicationBooks, error) {
	type row struct {
		TypeName string
		BookName string
	}
	var rows []row
	err := q.db.WithContext(ctx).
		Table("books").
		Select("publication_types.name AS type_name, books.name AS book_name").
		Joins("JOIN publication_types ON publication_types.id = books.publication_type_id").
		Where("NOT EXISTS (SELECT 1 FROM move_book_journals WHERE move_book_journals.book_id = books.id AND move_book_journals.to_book_shelf_id IS NULL)").
		Order("publication_types.name ASC, books.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询未借出图书失败")
	}

	var result []reporting.PublicationBooks
	for _, r := range rows {
		if len(result) == 0 || result[len(result)-1].PublicationType != r.TypeName {
			result = append(result, reporting.PublicationBooks{PublicationType: r.TypeName})
		}
		last := &result[len(result)-1]
		last.BookNames = append(last.BookNames, r.BookName)
	}
	return result, nil
}

// ShelfHistoryByBook 每本书历史上归还落架过的全部书架ID(去重)
func (q *reportingQueries) ShelfHistoryByBook(ctx context.Context) ([]reporting.BookShelfHistory, error) {
	type row struct {
		BookID   uint
		BookName string
		ShelfID  uint
	}
	var rows []row
	err := q.db.WithContext(ctx).
		Table("move_book_journals").
		Select("DISTINCT move_book_journals.book_id AS book_id, books.name AS book_name, move_book_journals.to_book_shelf_id AS shelf_id").
		Joins("JOIN books ON books.id = move_book_journals.book_id").
		Where("move_book_journals.to_book_shelf_id IS NOT NULL").
		Order("book_id ASC, shelf_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询落架历史失败")
	}

	var result []reporting.BookShelfHistory
	var shelfIDs []uint
	flush := func() {
		if len(result) > 0 {
			result[len(result)-1].ShelfIDs = shelving.JoinNumbers(shelfIDs)
		}
	}
	for _, r := range rows {
		if len(result) == 0 || result[len(result)-1].BookID != r.BookID {
			flush()
			result = append(result, reporting.BookShelfHistory{BookID: r.BookID, BookName: r.BookName})
			shelfIDs = shelfIDs[:0]
		}
		shelfIDs = append(shelfIDs, r.ShelfID)
	}
	flush()
	return result, nil
}
